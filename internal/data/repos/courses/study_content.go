package courses

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type StudyContentRepo interface {
	CreatePlaceholder(dbc dbctx.Context, courseID string, studyType string, chapters []string) (*types.StudyTypeContent, error)
	Fill(dbc dbctx.Context, id uuid.UUID, content datatypes.JSON) (bool, error)
	MarkFailed(dbc dbctx.Context, id uuid.UUID, message string) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.StudyTypeContent, error)
	ListByCourseAndType(dbc dbctx.Context, courseID string, studyType string) ([]*types.StudyTypeContent, error)
}

type studyContentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudyContentRepo(db *gorm.DB, baseLog *logger.Logger) StudyContentRepo {
	return &studyContentRepo{
		db:  db,
		log: baseLog.With("repo", "StudyContentRepo"),
	}
}

// CreatePlaceholder allocates a fresh id with no content; every call yields a new row.
func (r *studyContentRepo) CreatePlaceholder(dbc dbctx.Context, courseID string, studyType string, chapters []string) (*types.StudyTypeContent, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if chapters == nil {
		chapters = []string{}
	}
	rawChapters, err := json.Marshal(chapters)
	if err != nil {
		return nil, err
	}
	row := &types.StudyTypeContent{
		ID:       uuid.New(),
		CourseID: courseID,
		Type:     studyType,
		Status:   types.StudyStatusGenerating,
		Chapters: datatypes.JSON(rawChapters),
		Content:  datatypes.JSON([]byte("[]")),
	}
	if err := transaction.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Fill writes content into a placeholder still generating. It reports false if the id is unknown or already settled.
func (r *studyContentRepo) Fill(dbc dbctx.Context, id uuid.UUID, content datatypes.JSON) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || len(content) == 0 {
		return false, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.StudyTypeContent{}).
		Where("id = ? AND status = ?", id, types.StudyStatusGenerating).
		Updates(map[string]interface{}{
			"content":    content,
			"status":     types.StudyStatusReady,
			"error":      "",
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkFailed records an operator-facing cause on a placeholder that is still generating.
func (r *studyContentRepo) MarkFailed(dbc dbctx.Context, id uuid.UUID, message string) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.StudyTypeContent{}).
		Where("id = ? AND status = ?", id, types.StudyStatusGenerating).
		Updates(map[string]interface{}{
			"status":     types.StudyStatusError,
			"error":      message,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *studyContentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.StudyTypeContent, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.StudyTypeContent
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

func (r *studyContentRepo) ListByCourseAndType(dbc dbctx.Context, courseID string, studyType string) ([]*types.StudyTypeContent, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).Where("course_id = ?", courseID)
	if studyType != "" {
		q = q.Where("type = ?", studyType)
	}
	var out []*types.StudyTypeContent
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
