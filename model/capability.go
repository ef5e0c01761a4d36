package model

// ThreadAware is implemented by nodes that comment threads can be attached to.
type ThreadAware interface {
	Node
	threadAware()
}

// Repository is implemented by nodes that own revisions: every entity and pages.
type Repository interface {
	Node
	// CurrentRevision is nil as long as no revision has been accepted.
	CurrentRevision() *int
	Revisions() []int
	License() int
	RevisionTypename() Typename
}

// Revision is implemented by every entity revision and page revisions.
type Revision interface {
	Node
	Author() int
	Repository() int
	RepositoryTypename() Typename
}

// TaxonomyTermChild is implemented by entities that are linked directly into the taxonomy.
type TaxonomyTermChild interface {
	Node
	TaxonomyTerms() []int
}

// Entity is implemented by every versioned content entity.
type Entity interface {
	Repository
	EntityType() EntityType
}

// EntityRevision is implemented by every revision of an entity.
type EntityRevision interface {
	Revision
	EntityType() EntityType
}

// SolutionOwner is implemented by exercises that may carry a solution.
type SolutionOwner interface {
	Entity
	Solution() *int
}
