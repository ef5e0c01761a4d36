package model

import (
	"time"
)

// Notification is an entry of a user's notification feed pointing at an event.
type Notification struct {
	ID      int  `json:"id"`
	Unread  bool `json:"unread"`
	EventID int  `json:"eventId"`
}

type Notifications struct {
	UserID        int            `json:"userId"`
	Notifications []Notification `json:"notifications"`
}

// NotificationState marks notifications of a user as read or unread.
type NotificationState struct {
	UserID int   `json:"userId"`
	IDs    []int `json:"ids"`
	Unread bool  `json:"unread"`
}

const (
	TypenameCheckoutRevisionNotificationEvent     Typename = "CheckoutRevisionNotificationEvent"
	TypenameCreateCommentNotificationEvent        Typename = "CreateCommentNotificationEvent"
	TypenameCreateEntityNotificationEvent         Typename = "CreateEntityNotificationEvent"
	TypenameCreateEntityLinkNotificationEvent     Typename = "CreateEntityLinkNotificationEvent"
	TypenameCreateEntityRevisionNotificationEvent Typename = "CreateEntityRevisionNotificationEvent"
	TypenameCreateTaxonomyLinkNotificationEvent   Typename = "CreateTaxonomyLinkNotificationEvent"
	TypenameCreateTaxonomyTermNotificationEvent   Typename = "CreateTaxonomyTermNotificationEvent"
	TypenameCreateThreadNotificationEvent         Typename = "CreateThreadNotificationEvent"
	TypenameRejectRevisionNotificationEvent       Typename = "RejectRevisionNotificationEvent"
	TypenameRemoveEntityLinkNotificationEvent     Typename = "RemoveEntityLinkNotificationEvent"
	TypenameRemoveTaxonomyLinkNotificationEvent   Typename = "RemoveTaxonomyLinkNotificationEvent"
	TypenameSetLicenseNotificationEvent           Typename = "SetLicenseNotificationEvent"
	TypenameSetTaxonomyParentNotificationEvent    Typename = "SetTaxonomyParentNotificationEvent"
	TypenameSetTaxonomyTermNotificationEvent      Typename = "SetTaxonomyTermNotificationEvent"
	TypenameSetThreadStateNotificationEvent       Typename = "SetThreadStateNotificationEvent"
	TypenameSetUuidStateNotificationEvent         Typename = "SetUuidStateNotificationEvent"
)

// NotificationEvent is a resolved notification event.
type NotificationEvent interface {
	GetID() int
	Typename() Typename
	Actor() int
}

// EventBase is the envelope every notification event shares.
type EventBase struct {
	ID       int       `json:"id"`
	Instance Instance  `json:"instance"`
	Date     time.Time `json:"date"`
	ActorID  int       `json:"actorId"`
	ObjectID int       `json:"objectId"`
}

func (e *EventBase) GetID() int { return e.ID }
func (e *EventBase) Actor() int { return e.ActorID }

type CheckoutRevisionEvent struct {
	EventBase
	RepositoryID int    `json:"repositoryId"`
	RevisionID   int    `json:"revisionId"`
	Reason       string `json:"reason"`
}

func (*CheckoutRevisionEvent) Typename() Typename { return TypenameCheckoutRevisionNotificationEvent }

type RejectRevisionEvent struct {
	EventBase
	RepositoryID int    `json:"repositoryId"`
	RevisionID   int    `json:"revisionId"`
	Reason       string `json:"reason"`
}

func (*RejectRevisionEvent) Typename() Typename { return TypenameRejectRevisionNotificationEvent }

type CreateCommentEvent struct {
	EventBase
	ThreadID  int `json:"threadId"`
	CommentID int `json:"commentId"`
}

func (*CreateCommentEvent) Typename() Typename { return TypenameCreateCommentNotificationEvent }

type CreateEntityEvent struct {
	EventBase
	EntityID int `json:"entityId"`
}

func (*CreateEntityEvent) Typename() Typename { return TypenameCreateEntityNotificationEvent }

// LinkEvent is the shape of the events that link or unlink two uuids.
type LinkEvent struct {
	EventBase
	ParentID int `json:"parentId"`
	ChildID  int `json:"childId"`
}

// Link returns the linked pair, whichever event embeds it.
func (e *LinkEvent) Link() *LinkEvent { return e }

type CreateEntityLinkEvent struct{ LinkEvent }

func (*CreateEntityLinkEvent) Typename() Typename { return TypenameCreateEntityLinkNotificationEvent }

type RemoveEntityLinkEvent struct{ LinkEvent }

func (*RemoveEntityLinkEvent) Typename() Typename { return TypenameRemoveEntityLinkNotificationEvent }

type CreateTaxonomyLinkEvent struct{ LinkEvent }

func (*CreateTaxonomyLinkEvent) Typename() Typename {
	return TypenameCreateTaxonomyLinkNotificationEvent
}

type RemoveTaxonomyLinkEvent struct{ LinkEvent }

func (*RemoveTaxonomyLinkEvent) Typename() Typename {
	return TypenameRemoveTaxonomyLinkNotificationEvent
}

type CreateEntityRevisionEvent struct {
	EventBase
	EntityID         int `json:"entityId"`
	EntityRevisionID int `json:"entityRevisionId"`
}

func (*CreateEntityRevisionEvent) Typename() Typename {
	return TypenameCreateEntityRevisionNotificationEvent
}

type CreateTaxonomyTermEvent struct {
	EventBase
	TaxonomyTermID int `json:"taxonomyTermId"`
}

func (*CreateTaxonomyTermEvent) Typename() Typename {
	return TypenameCreateTaxonomyTermNotificationEvent
}

type SetTaxonomyTermEvent struct {
	EventBase
	TaxonomyTermID int `json:"taxonomyTermId"`
}

func (*SetTaxonomyTermEvent) Typename() Typename { return TypenameSetTaxonomyTermNotificationEvent }

type SetTaxonomyParentEvent struct {
	EventBase
	PreviousParentID *int `json:"previousParentId"`
	ParentID         *int `json:"parentId"`
	ChildID          int  `json:"childId"`
}

func (*SetTaxonomyParentEvent) Typename() Typename {
	return TypenameSetTaxonomyParentNotificationEvent
}

type CreateThreadEvent struct {
	EventBase
	ThreadID int `json:"threadId"`
}

func (*CreateThreadEvent) Typename() Typename { return TypenameCreateThreadNotificationEvent }

type SetThreadStateEvent struct {
	EventBase
	ThreadID int  `json:"threadId"`
	Archived bool `json:"archived"`
}

func (*SetThreadStateEvent) Typename() Typename { return TypenameSetThreadStateNotificationEvent }

type SetUuidStateEvent struct {
	EventBase
	Trashed bool `json:"trashed"`
}

func (*SetUuidStateEvent) Typename() Typename { return TypenameSetUuidStateNotificationEvent }

type SetLicenseEvent struct {
	EventBase
	RepositoryID int `json:"repositoryId"`
}

func (*SetLicenseEvent) Typename() Typename { return TypenameSetLicenseNotificationEvent }

// UnsupportedEvent is the sentinel for event payloads with an unknown __typename.
type UnsupportedEvent struct {
	EventBase
	Type string `json:"__typename"`
}

// Typename returns an empty typename: unsupported events have no GraphQL type.
func (*UnsupportedEvent) Typename() Typename { return "" }
