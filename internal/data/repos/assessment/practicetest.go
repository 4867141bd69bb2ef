package assessment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

// Submission is the scored result written onto a practice test.
type Submission struct {
	Answers        datatypes.JSON
	Score          int
	TotalQuestions int
	TimeSpent      int
	CompletedAt    time.Time
}

type PracticeTestRepo interface {
	Create(dbc dbctx.Context, test *types.PracticeTest) (*types.PracticeTest, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.PracticeTest, error)
	GetLatest(dbc dbctx.Context, courseID string, chapterID int, userID string) (*types.PracticeTest, error)
	ApplySubmission(dbc dbctx.Context, id uuid.UUID, sub Submission) (bool, error)
}

type practiceTestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPracticeTestRepo(db *gorm.DB, baseLog *logger.Logger) PracticeTestRepo {
	return &practiceTestRepo{
		db:  db,
		log: baseLog.With("repo", "PracticeTestRepo"),
	}
}

func (r *practiceTestRepo) Create(dbc dbctx.Context, test *types.PracticeTest) (*types.PracticeTest, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if test.Status == "" {
		test.Status = types.TestStatusPending
	}
	if len(test.Questions) == 0 {
		test.Questions = datatypes.JSON([]byte("[]"))
	}
	if len(test.Answers) == 0 {
		test.Answers = datatypes.JSON([]byte("{}"))
	}
	if err := transaction.WithContext(dbc.Ctx).Create(test).Error; err != nil {
		return nil, err
	}
	return test, nil
}

func (r *practiceTestRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.PracticeTest, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.PracticeTest
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// GetLatest returns the most recently created test for (course, chapter, user).
func (r *practiceTestRepo) GetLatest(dbc dbctx.Context, courseID string, chapterID int, userID string) (*types.PracticeTest, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.PracticeTest
	if err := transaction.WithContext(dbc.Ctx).
		Where("course_id = ? AND chapter_id = ? AND user_id = ?", courseID, chapterID, userID).
		Order("created_at DESC").
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ApplySubmission overwrites any earlier submission and leaves the test completed.
func (r *practiceTestRepo) ApplySubmission(dbc dbctx.Context, id uuid.UUID, sub Submission) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.PracticeTest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"answers":         sub.Answers,
			"score":           sub.Score,
			"total_questions": sub.TotalQuestions,
			"time_spent":      sub.TimeSpent,
			"status":          types.TestStatusCompleted,
			"completed_at":    sub.CompletedAt,
			"updated_at":      time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
