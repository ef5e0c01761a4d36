package model

import (
	"time"
)

// RepositoryBase holds the fields shared by entities and pages.
type RepositoryBase struct {
	Base
	Instance          Instance  `json:"instance"`
	Date              time.Time `json:"date"`
	CurrentRevisionID *int      `json:"currentRevisionId"`
	RevisionIDs       []int     `json:"revisionIds"`
	LicenseID         int       `json:"licenseId"`
}

func (r *RepositoryBase) CurrentRevision() *int { return r.CurrentRevisionID }
func (r *RepositoryBase) Revisions() []int      { return r.RevisionIDs }
func (r *RepositoryBase) License() int          { return r.LicenseID }
func (r *RepositoryBase) threadAware()          {}

// TaxonomyLinks is embedded by entities that are placed in taxonomy terms directly.
type TaxonomyLinks struct {
	TaxonomyTermIDs []int `json:"taxonomyTermIds"`
}

func (l *TaxonomyLinks) TaxonomyTerms() []int { return l.TaxonomyTermIDs }

type Applet struct {
	RepositoryBase
	TaxonomyLinks
}

func (*Applet) Typename() Typename         { return TypenameApplet }
func (*Applet) EntityType() EntityType     { return EntityTypeApplet }
func (*Applet) RevisionTypename() Typename { return TypenameAppletRevision }

type Article struct {
	RepositoryBase
	TaxonomyLinks
}

func (*Article) Typename() Typename         { return TypenameArticle }
func (*Article) EntityType() EntityType     { return EntityTypeArticle }
func (*Article) RevisionTypename() Typename { return TypenameArticleRevision }

type Course struct {
	RepositoryBase
	TaxonomyLinks
	PageIDs []int `json:"pageIds"`
}

func (*Course) Typename() Typename         { return TypenameCourse }
func (*Course) EntityType() EntityType     { return EntityTypeCourse }
func (*Course) RevisionTypename() Typename { return TypenameCourseRevision }

type CoursePage struct {
	RepositoryBase
	ParentID int `json:"parentId"`
}

func (*CoursePage) Typename() Typename         { return TypenameCoursePage }
func (*CoursePage) EntityType() EntityType     { return EntityTypeCoursePage }
func (*CoursePage) RevisionTypename() Typename { return TypenameCoursePageRevision }

type Event struct {
	RepositoryBase
	TaxonomyLinks
}

func (*Event) Typename() Typename         { return TypenameEvent }
func (*Event) EntityType() EntityType     { return EntityTypeEvent }
func (*Event) RevisionTypename() Typename { return TypenameEventRevision }

type Exercise struct {
	RepositoryBase
	TaxonomyLinks
	SolutionID *int `json:"solutionId"`
}

func (*Exercise) Typename() Typename         { return TypenameExercise }
func (*Exercise) EntityType() EntityType     { return EntityTypeExercise }
func (*Exercise) RevisionTypename() Typename { return TypenameExerciseRevision }
func (e *Exercise) Solution() *int           { return e.SolutionID }

type ExerciseGroup struct {
	RepositoryBase
	TaxonomyLinks
	ExerciseIDs []int `json:"exerciseIds"`
}

func (*ExerciseGroup) Typename() Typename         { return TypenameExerciseGroup }
func (*ExerciseGroup) EntityType() EntityType     { return EntityTypeExerciseGroup }
func (*ExerciseGroup) RevisionTypename() Typename { return TypenameExerciseGroupRevision }

type GroupedExercise struct {
	RepositoryBase
	ParentID   int  `json:"parentId"`
	SolutionID *int `json:"solutionId"`
}

func (*GroupedExercise) Typename() Typename         { return TypenameGroupedExercise }
func (*GroupedExercise) EntityType() EntityType     { return EntityTypeGroupedExercise }
func (*GroupedExercise) RevisionTypename() Typename { return TypenameGroupedExerciseRevision }
func (e *GroupedExercise) Solution() *int           { return e.SolutionID }

type Solution struct {
	RepositoryBase
	// ParentID is either an Exercise or a GroupedExercise.
	ParentID int `json:"parentId"`
}

func (*Solution) Typename() Typename         { return TypenameSolution }
func (*Solution) EntityType() EntityType     { return EntityTypeSolution }
func (*Solution) RevisionTypename() Typename { return TypenameSolutionRevision }

type Video struct {
	RepositoryBase
	TaxonomyLinks
}

func (*Video) Typename() Typename         { return TypenameVideo }
func (*Video) EntityType() EntityType     { return EntityTypeVideo }
func (*Video) RevisionTypename() Typename { return TypenameVideoRevision }

type Page struct {
	RepositoryBase
}

func (*Page) Typename() Typename         { return TypenamePage }
func (*Page) RevisionTypename() Typename { return TypenamePageRevision }

var (
	_ TaxonomyTermChild = (*Applet)(nil)
	_ TaxonomyTermChild = (*Article)(nil)
	_ TaxonomyTermChild = (*Course)(nil)
	_ TaxonomyTermChild = (*Event)(nil)
	_ TaxonomyTermChild = (*Exercise)(nil)
	_ TaxonomyTermChild = (*ExerciseGroup)(nil)
	_ TaxonomyTermChild = (*Video)(nil)
	_ Entity            = (*CoursePage)(nil)
	_ SolutionOwner     = (*Exercise)(nil)
	_ SolutionOwner     = (*GroupedExercise)(nil)
	_ Entity            = (*Solution)(nil)
	_ Repository        = (*Page)(nil)
	_ ThreadAware       = (*Page)(nil)
)
