package courses

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type ChapterNoteRepo interface {
	Insert(dbc dbctx.Context, courseID string, chapterID int, notes string) (bool, error)
	ExistingChapterIDs(dbc dbctx.Context, courseID string) (map[int]bool, error)
	ListByCourse(dbc dbctx.Context, courseID string) ([]*types.ChapterNote, error)
	Get(dbc dbctx.Context, courseID string, chapterID int) (*types.ChapterNote, error)
}

type chapterNoteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChapterNoteRepo(db *gorm.DB, baseLog *logger.Logger) ChapterNoteRepo {
	return &chapterNoteRepo{
		db:  db,
		log: baseLog.With("repo", "ChapterNoteRepo"),
	}
}

// Insert stores a note unless one exists for (courseID, chapterID); it reports whether a row was written.
func (r *chapterNoteRepo) Insert(dbc dbctx.Context, courseID string, chapterID int, notes string) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	row := &types.ChapterNote{
		CourseID:  courseID,
		ChapterID: chapterID,
		Notes:     notes,
	}
	res := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}, {Name: "chapter_id"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		r.log.Debug("Chapter note already present", "course_id", courseID, "chapter_id", chapterID)
		return false, nil
	}
	return true, nil
}

func (r *chapterNoteRepo) ExistingChapterIDs(dbc dbctx.Context, courseID string) (map[int]bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var ids []int
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.ChapterNote{}).
		Where("course_id = ?", courseID).
		Pluck("chapter_id", &ids).Error; err != nil {
		return nil, err
	}
	out := make(map[int]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *chapterNoteRepo) ListByCourse(dbc dbctx.Context, courseID string) ([]*types.ChapterNote, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ChapterNote
	if err := transaction.WithContext(dbc.Ctx).
		Where("course_id = ?", courseID).
		Order("chapter_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *chapterNoteRepo) Get(dbc dbctx.Context, courseID string, chapterID int) (*types.ChapterNote, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.ChapterNote
	if err := transaction.WithContext(dbc.Ctx).
		Where("course_id = ? AND chapter_id = ?", courseID, chapterID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
