// Package model is the strongly typed in-memory representation of everything the gateway resolves.
//
// Every uuid payload a data source returns is turned into exactly one concrete node by the
// dispatch table in dispatch.go. Nodes are built fresh per request and never mutated afterwards.
// Shared behavior is expressed through small capability interfaces (Repository, Revision,
// TaxonomyTermChild, ThreadAware) that the resolver layer attaches field resolvers to.
package model

import (
	"time"
)

// Discriminator identifies the broad category of a uuid payload.
type Discriminator string

const (
	DiscriminatorEntity         Discriminator = "entity"
	DiscriminatorEntityRevision Discriminator = "entityRevision"
	DiscriminatorPage           Discriminator = "page"
	DiscriminatorPageRevision   Discriminator = "pageRevision"
	DiscriminatorUser           Discriminator = "user"
	DiscriminatorTaxonomyTerm   Discriminator = "taxonomyTerm"
	DiscriminatorComment        Discriminator = "comment"
)

// Discriminators lists every discriminator the dispatch table knows.
var Discriminators = []Discriminator{
	DiscriminatorEntity,
	DiscriminatorEntityRevision,
	DiscriminatorPage,
	DiscriminatorPageRevision,
	DiscriminatorUser,
	DiscriminatorTaxonomyTerm,
	DiscriminatorComment,
}

// EntityType is the subtype tag of entity and entity revision payloads.
type EntityType string

const (
	EntityTypeApplet          EntityType = "applet"
	EntityTypeArticle         EntityType = "article"
	EntityTypeCourse          EntityType = "course"
	EntityTypeCoursePage      EntityType = "coursePage"
	EntityTypeEvent           EntityType = "event"
	EntityTypeExercise        EntityType = "exercise"
	EntityTypeExerciseGroup   EntityType = "exerciseGroup"
	EntityTypeGroupedExercise EntityType = "groupedExercise"
	EntityTypeSolution        EntityType = "solution"
	EntityTypeVideo           EntityType = "video"
)

var EntityTypes = []EntityType{
	EntityTypeApplet,
	EntityTypeArticle,
	EntityTypeCourse,
	EntityTypeCoursePage,
	EntityTypeEvent,
	EntityTypeExercise,
	EntityTypeExerciseGroup,
	EntityTypeGroupedExercise,
	EntityTypeSolution,
	EntityTypeVideo,
}

// Typename is the GraphQL object type a value resolves to.
type Typename string

const (
	TypenameApplet          Typename = "Applet"
	TypenameArticle         Typename = "Article"
	TypenameCourse          Typename = "Course"
	TypenameCoursePage      Typename = "CoursePage"
	TypenameEvent           Typename = "Event"
	TypenameExercise        Typename = "Exercise"
	TypenameExerciseGroup   Typename = "ExerciseGroup"
	TypenameGroupedExercise Typename = "GroupedExercise"
	TypenameSolution        Typename = "Solution"
	TypenameVideo           Typename = "Video"

	TypenameAppletRevision          Typename = "AppletRevision"
	TypenameArticleRevision         Typename = "ArticleRevision"
	TypenameCourseRevision          Typename = "CourseRevision"
	TypenameCoursePageRevision      Typename = "CoursePageRevision"
	TypenameEventRevision           Typename = "EventRevision"
	TypenameExerciseRevision        Typename = "ExerciseRevision"
	TypenameExerciseGroupRevision   Typename = "ExerciseGroupRevision"
	TypenameGroupedExerciseRevision Typename = "GroupedExerciseRevision"
	TypenameSolutionRevision        Typename = "SolutionRevision"
	TypenameVideoRevision           Typename = "VideoRevision"

	TypenamePage            Typename = "Page"
	TypenamePageRevision    Typename = "PageRevision"
	TypenameUser            Typename = "User"
	TypenameTaxonomyTerm    Typename = "TaxonomyTerm"
	TypenameComment         Typename = "Comment"
	TypenameUnsupportedUuid Typename = "UnsupportedUuid"
)

// Node is a resolved uuid.
type Node interface {
	GetID() int
	IsTrashed() bool
	Typename() Typename
}

// Base holds the fields every uuid payload carries.
type Base struct {
	ID      int     `json:"id"`
	Trashed bool    `json:"trashed"`
	Alias   *string `json:"alias"`
}

func (b *Base) GetID() int      { return b.ID }
func (b *Base) IsTrashed() bool { return b.Trashed }

// Ref is the id-only tier of a node. Resolvers hand it out instead of the full node when the
// query selects nothing but the id, so the related object is never fetched. Type is the
// concrete type the full node would resolve to, or empty when the field is abstract and the
// selection reads the same from every possible type.
type Ref struct {
	ID   int      `json:"id"`
	Type Typename `json:"-"`
}

func NewRef(id int, typename Typename) *Ref {
	return &Ref{ID: id, Type: typename}
}

func (r *Ref) GetID() int         { return r.ID }
func (r *Ref) IsTrashed() bool    { return false }
func (r *Ref) Typename() Typename { return r.Type }

// UnsupportedUuid is the sentinel for payloads whose tags the dispatch table does not know.
type UnsupportedUuid struct {
	Base
	Discriminator string  `json:"discriminator"`
	Type          *string `json:"type"`
}

func (*UnsupportedUuid) Typename() Typename { return TypenameUnsupportedUuid }

// Instance is a locale/site partition.
type Instance string

const (
	InstanceDe Instance = "de"
	InstanceEn Instance = "en"
	InstanceEs Instance = "es"
	InstanceFr Instance = "fr"
	InstanceHi Instance = "hi"
	InstanceTa Instance = "ta"
)

// Alias maps a human readable path of an instance to a uuid.
type Alias struct {
	ID       int      `json:"id"`
	Instance Instance `json:"instance"`
	Path     string   `json:"path"`
}

// User is a registered account.
type User struct {
	Base
	Username    string     `json:"username"`
	Date        time.Time  `json:"date"`
	LastLogin   *time.Time `json:"lastLogin"`
	Description *string    `json:"description"`
}

func (*User) Typename() Typename { return TypenameUser }
func (*User) threadAware()       {}
