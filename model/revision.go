package model

import (
	"time"
)

// RevisionBase holds the fields shared by every revision.
type RevisionBase struct {
	Base
	Date         time.Time `json:"date"`
	AuthorID     int       `json:"authorId"`
	RepositoryID int       `json:"repositoryId"`
}

func (r *RevisionBase) Author() int     { return r.AuthorID }
func (r *RevisionBase) Repository() int { return r.RepositoryID }
func (r *RevisionBase) threadAware()    {}

// ContentRevision is the shape shared by the revisions of exercises, exercise groups, grouped
// exercises and solutions.
type ContentRevision struct {
	RevisionBase
	Content string `json:"content"`
	Changes string `json:"changes"`
}

type AppletRevision struct {
	RevisionBase
	URL             string `json:"url"`
	Title           string `json:"title"`
	Content         string `json:"content"`
	Changes         string `json:"changes"`
	MetaTitle       string `json:"metaTitle"`
	MetaDescription string `json:"metaDescription"`
}

func (*AppletRevision) Typename() Typename           { return TypenameAppletRevision }
func (*AppletRevision) EntityType() EntityType       { return EntityTypeApplet }
func (*AppletRevision) RepositoryTypename() Typename { return TypenameApplet }

type ArticleRevision struct {
	RevisionBase
	Title           string `json:"title"`
	Content         string `json:"content"`
	Changes         string `json:"changes"`
	MetaTitle       string `json:"metaTitle"`
	MetaDescription string `json:"metaDescription"`
}

func (*ArticleRevision) Typename() Typename           { return TypenameArticleRevision }
func (*ArticleRevision) EntityType() EntityType       { return EntityTypeArticle }
func (*ArticleRevision) RepositoryTypename() Typename { return TypenameArticle }

type CourseRevision struct {
	RevisionBase
	Title           string `json:"title"`
	Content         string `json:"content"`
	Changes         string `json:"changes"`
	MetaDescription string `json:"metaDescription"`
}

func (*CourseRevision) Typename() Typename           { return TypenameCourseRevision }
func (*CourseRevision) EntityType() EntityType       { return EntityTypeCourse }
func (*CourseRevision) RepositoryTypename() Typename { return TypenameCourse }

type CoursePageRevision struct {
	RevisionBase
	Title   string `json:"title"`
	Content string `json:"content"`
	Changes string `json:"changes"`
}

func (*CoursePageRevision) Typename() Typename           { return TypenameCoursePageRevision }
func (*CoursePageRevision) EntityType() EntityType       { return EntityTypeCoursePage }
func (*CoursePageRevision) RepositoryTypename() Typename { return TypenameCoursePage }

type EventRevision struct {
	RevisionBase
	Title           string `json:"title"`
	Content         string `json:"content"`
	Changes         string `json:"changes"`
	MetaTitle       string `json:"metaTitle"`
	MetaDescription string `json:"metaDescription"`
}

func (*EventRevision) Typename() Typename           { return TypenameEventRevision }
func (*EventRevision) EntityType() EntityType       { return EntityTypeEvent }
func (*EventRevision) RepositoryTypename() Typename { return TypenameEvent }

type ExerciseRevision struct {
	ContentRevision
}

func (*ExerciseRevision) Typename() Typename           { return TypenameExerciseRevision }
func (*ExerciseRevision) EntityType() EntityType       { return EntityTypeExercise }
func (*ExerciseRevision) RepositoryTypename() Typename { return TypenameExercise }

type ExerciseGroupRevision struct {
	ContentRevision
}

func (*ExerciseGroupRevision) Typename() Typename           { return TypenameExerciseGroupRevision }
func (*ExerciseGroupRevision) EntityType() EntityType       { return EntityTypeExerciseGroup }
func (*ExerciseGroupRevision) RepositoryTypename() Typename { return TypenameExerciseGroup }

type GroupedExerciseRevision struct {
	ContentRevision
}

func (*GroupedExerciseRevision) Typename() Typename           { return TypenameGroupedExerciseRevision }
func (*GroupedExerciseRevision) EntityType() EntityType       { return EntityTypeGroupedExercise }
func (*GroupedExerciseRevision) RepositoryTypename() Typename { return TypenameGroupedExercise }

type SolutionRevision struct {
	ContentRevision
}

func (*SolutionRevision) Typename() Typename           { return TypenameSolutionRevision }
func (*SolutionRevision) EntityType() EntityType       { return EntityTypeSolution }
func (*SolutionRevision) RepositoryTypename() Typename { return TypenameSolution }

type VideoRevision struct {
	RevisionBase
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Changes string `json:"changes"`
}

func (*VideoRevision) Typename() Typename           { return TypenameVideoRevision }
func (*VideoRevision) EntityType() EntityType       { return EntityTypeVideo }
func (*VideoRevision) RepositoryTypename() Typename { return TypenameVideo }

type PageRevision struct {
	RevisionBase
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (*PageRevision) Typename() Typename           { return TypenamePageRevision }
func (*PageRevision) RepositoryTypename() Typename { return TypenamePage }

var (
	_ EntityRevision = (*AppletRevision)(nil)
	_ EntityRevision = (*SolutionRevision)(nil)
	_ Revision       = (*PageRevision)(nil)
	_ ThreadAware    = (*PageRevision)(nil)
)
