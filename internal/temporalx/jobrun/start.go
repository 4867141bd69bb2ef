package jobrun

import (
	"context"

	enumspb "go.temporal.io/api/enums/v1"
	temporalsdkclient "go.temporal.io/sdk/client"

	types "github.com/yungbote/coursegen-backend/internal/domain"
)

// Start launches the workflow for job; the workflow id is the job id so a repeat start is rejected.
func Start(ctx context.Context, tc temporalsdkclient.Client, taskQueue string, job *types.JobRun, in Input) (temporalsdkclient.WorkflowRun, error) {
	return tc.ExecuteWorkflow(ctx, temporalsdkclient.StartWorkflowOptions{
		ID:                    job.ID.String(),
		TaskQueue:             taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}, WorkflowName, in)
}
