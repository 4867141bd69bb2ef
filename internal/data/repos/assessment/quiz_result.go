package assessment

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type QuizResultRepo interface {
	Create(dbc dbctx.Context, result *types.QuizResult) (*types.QuizResult, error)
	ListByUserAndCourse(dbc dbctx.Context, userID string, courseID string) ([]*types.QuizResult, error)
}

type quizResultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizResultRepo(db *gorm.DB, baseLog *logger.Logger) QuizResultRepo {
	return &quizResultRepo{
		db:  db,
		log: baseLog.With("repo", "QuizResultRepo"),
	}
}

func (r *quizResultRepo) Create(dbc dbctx.Context, result *types.QuizResult) (*types.QuizResult, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(result.Answers) == 0 {
		result.Answers = datatypes.JSON([]byte("{}"))
	}
	if err := transaction.WithContext(dbc.Ctx).Create(result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *quizResultRepo) ListByUserAndCourse(dbc dbctx.Context, userID string, courseID string) ([]*types.QuizResult, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).Where("user_id = ?", userID)
	if courseID != "" {
		q = q.Where("course_id = ?", courseID)
	}
	var out []*types.QuizResult
	if err := q.Order("created_at DESC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
