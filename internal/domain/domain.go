package domain

import (
	"github.com/yungbote/coursegen-backend/internal/domain/assessment"
	"github.com/yungbote/coursegen-backend/internal/domain/courses"
	"github.com/yungbote/coursegen-backend/internal/domain/jobs"
)

type (
	Course           = courses.Course
	CourseOutline    = courses.CourseOutline
	Chapter          = courses.Chapter
	Topic            = courses.Topic
	Resource         = courses.Resource
	ChapterNote      = courses.ChapterNote
	StudyTypeContent = courses.StudyTypeContent
	FlashcardItem    = courses.FlashcardItem
	QuizItem         = courses.QuizItem

	PracticeTest = assessment.PracticeTest
	QuizResult   = assessment.QuizResult

	JobRun = jobs.JobRun
)

const (
	CourseStatusGenerating = courses.StatusGenerating
	CourseStatusReady      = courses.StatusReady
	CourseStatusError      = courses.StatusError

	StudyTypeFlashcard = courses.StudyTypeFlashcard
	StudyTypeQuiz      = courses.StudyTypeQuiz

	StudyStatusGenerating = courses.StudyStatusGenerating
	StudyStatusReady      = courses.StudyStatusReady
	StudyStatusError      = courses.StudyStatusError

	StudyItemCount  = courses.StudyItemCount
	QuizOptionCount = courses.QuizOptionCount

	TestStatusPending   = assessment.TestStatusPending
	TestStatusCompleted = assessment.TestStatusCompleted

	JobStatusQueued    = jobs.StatusQueued
	JobStatusRunning   = jobs.StatusRunning
	JobStatusSucceeded = jobs.StatusSucceeded
	JobStatusFailed    = jobs.StatusFailed
	JobStatusCanceled  = jobs.StatusCanceled
)
