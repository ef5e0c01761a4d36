package model

// TaxonomyTermType is the kind of a node in the classification tree.
type TaxonomyTermType string

const (
	TaxonomyTermTypeBlog                  TaxonomyTermType = "blog"
	TaxonomyTermTypeCurriculum            TaxonomyTermType = "curriculum"
	TaxonomyTermTypeCurriculumTopic       TaxonomyTermType = "curriculumTopic"
	TaxonomyTermTypeCurriculumTopicFolder TaxonomyTermType = "curriculumTopicFolder"
	TaxonomyTermTypeForum                 TaxonomyTermType = "forum"
	TaxonomyTermTypeForumCategory         TaxonomyTermType = "forumCategory"
	TaxonomyTermTypeLocale                TaxonomyTermType = "locale"
	TaxonomyTermTypeRoot                  TaxonomyTermType = "root"
	TaxonomyTermTypeSubject               TaxonomyTermType = "subject"
	TaxonomyTermTypeTopic                 TaxonomyTermType = "topic"
	TaxonomyTermTypeTopicFolder           TaxonomyTermType = "topicFolder"
)

// TaxonomyTerm is a node of the subject/topic tree. Only the root has no parent. The tree is not
// checked for cycles, so resolvers follow ParentID and ChildrenIDs one hop at a time.
type TaxonomyTerm struct {
	Base
	Type        TaxonomyTermType `json:"type"`
	Instance    Instance         `json:"instance"`
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Weight      int              `json:"weight"`
	ParentID    *int             `json:"parentId"`
	ChildrenIDs []int            `json:"childrenIds"`
	TaxonomyID  int              `json:"taxonomyId"`
}

func (*TaxonomyTerm) Typename() Typename { return TypenameTaxonomyTerm }
func (*TaxonomyTerm) threadAware()       {}
