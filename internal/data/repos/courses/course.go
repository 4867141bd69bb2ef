package courses

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/coursegen-backend/internal/pkg/errors"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type CourseRepo interface {
	Create(dbc dbctx.Context, course *types.Course) (*types.Course, error)
	GetByCourseID(dbc dbctx.Context, courseID string) (*types.Course, error)
	SetStatus(dbc dbctx.Context, courseID string, status string, message string) error
	TransitionStatus(dbc dbctx.Context, courseID string, from string, to string, message string) (bool, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{
		db:  db,
		log: baseLog.With("repo", "CourseRepo"),
	}
}

// Create inserts a course in Generating regardless of the status the caller set.
// A duplicate course_id yields pkgerrors.ErrConflict.
func (r *courseRepo) Create(dbc dbctx.Context, course *types.Course) (*types.Course, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if course == nil {
		return nil, fmt.Errorf("course required: %w", pkgerrors.ErrInvalidArgument)
	}
	course.Status = types.CourseStatusGenerating
	course.StatusMessage = ""
	if len(course.CourseLayout) == 0 {
		course.CourseLayout = datatypes.JSON([]byte("{}"))
	}
	if err := transaction.WithContext(dbc.Ctx).Create(course).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("course %q already exists: %w", course.CourseID, pkgerrors.ErrConflict)
		}
		return nil, err
	}
	return course, nil
}

func (r *courseRepo) GetByCourseID(dbc dbctx.Context, courseID string) (*types.Course, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if courseID == "" {
		return nil, nil
	}
	var rows []*types.Course
	if err := transaction.WithContext(dbc.Ctx).
		Where("course_id = ?", courseID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *courseRepo) SetStatus(dbc dbctx.Context, courseID string, status string, message string) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Course{}).
		Where("course_id = ?", courseID).
		Updates(map[string]interface{}{
			"status":         status,
			"status_message": message,
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("course %q: %w", courseID, pkgerrors.ErrNotFound)
	}
	return nil
}

// TransitionStatus moves a course from one status to another and reports whether the row was in from.
func (r *courseRepo) TransitionStatus(dbc dbctx.Context, courseID string, from string, to string, message string) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Course{}).
		Where("course_id = ? AND status = ?", courseID, from).
		Updates(map[string]interface{}{
			"status":         to,
			"status_message": message,
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
