package model

import (
	"encoding/json"
	"fmt"
)

type dispatchKey struct {
	discriminator Discriminator
	entityType    EntityType
}

type decodeFunc func(Payload) (Node, error)

// decodeAs decodes a payload into a fresh T.
func decodeAs[T any, PT interface {
	*T
	Node
}](p Payload) (Node, error) {
	var v T
	if err := json.Unmarshal(p, &v); err != nil {
		return nil, err
	}
	return PT(&v), nil
}

// dispatchTable maps the tags of a uuid payload to the constructor of its concrete type. Entity
// and entity revision payloads are keyed by discriminator and type, everything else by the
// discriminator alone.
var dispatchTable = map[dispatchKey]decodeFunc{
	{DiscriminatorEntity, EntityTypeApplet}:          decodeAs[Applet],
	{DiscriminatorEntity, EntityTypeArticle}:         decodeAs[Article],
	{DiscriminatorEntity, EntityTypeCourse}:          decodeAs[Course],
	{DiscriminatorEntity, EntityTypeCoursePage}:      decodeAs[CoursePage],
	{DiscriminatorEntity, EntityTypeEvent}:           decodeAs[Event],
	{DiscriminatorEntity, EntityTypeExercise}:        decodeAs[Exercise],
	{DiscriminatorEntity, EntityTypeExerciseGroup}:   decodeAs[ExerciseGroup],
	{DiscriminatorEntity, EntityTypeGroupedExercise}: decodeAs[GroupedExercise],
	{DiscriminatorEntity, EntityTypeSolution}:        decodeAs[Solution],
	{DiscriminatorEntity, EntityTypeVideo}:           decodeAs[Video],

	{DiscriminatorEntityRevision, EntityTypeApplet}:          decodeAs[AppletRevision],
	{DiscriminatorEntityRevision, EntityTypeArticle}:         decodeAs[ArticleRevision],
	{DiscriminatorEntityRevision, EntityTypeCourse}:          decodeAs[CourseRevision],
	{DiscriminatorEntityRevision, EntityTypeCoursePage}:      decodeAs[CoursePageRevision],
	{DiscriminatorEntityRevision, EntityTypeEvent}:           decodeAs[EventRevision],
	{DiscriminatorEntityRevision, EntityTypeExercise}:        decodeAs[ExerciseRevision],
	{DiscriminatorEntityRevision, EntityTypeExerciseGroup}:   decodeAs[ExerciseGroupRevision],
	{DiscriminatorEntityRevision, EntityTypeGroupedExercise}: decodeAs[GroupedExerciseRevision],
	{DiscriminatorEntityRevision, EntityTypeSolution}:        decodeAs[SolutionRevision],
	{DiscriminatorEntityRevision, EntityTypeVideo}:           decodeAs[VideoRevision],

	{DiscriminatorPage, ""}:         decodeAs[Page],
	{DiscriminatorPageRevision, ""}: decodeAs[PageRevision],
	{DiscriminatorUser, ""}:         decodeAs[User],
	{DiscriminatorTaxonomyTerm, ""}: decodeAs[TaxonomyTerm],
	{DiscriminatorComment, ""}:      decodeAs[Comment],
}

func (k dispatchKey) String() string {
	if k.entityType == "" {
		return string(k.discriminator)
	}
	return string(k.discriminator) + "/" + string(k.entityType)
}

func keyOf(p Payload) dispatchKey {
	key := dispatchKey{discriminator: p.Discriminator()}
	if key.discriminator == DiscriminatorEntity || key.discriminator == DiscriminatorEntityRevision {
		key.entityType = EntityType(p.Type())
	}
	return key
}

// DecodeUUID resolves a uuid payload into its concrete node. A null payload resolves to nil.
// Payloads with tags the dispatch table does not know resolve to an UnsupportedUuid carrying the
// raw tags. DecodeUUID performs no I/O.
func DecodeUUID(p Payload) (Node, error) {
	if p.IsNull() {
		return nil, nil
	}
	if !p.Valid() {
		return nil, fmt.Errorf("model: malformed uuid payload")
	}
	key := keyOf(p)
	decode, ok := dispatchTable[key]
	if !ok {
		return decodeAs[UnsupportedUuid](p)
	}
	node, err := decode(p)
	if err != nil {
		return nil, fmt.Errorf("model: decode %s payload %d: %w", key, p.ID(), err)
	}
	return node, nil
}

// Prototypes returns a zero value of every concrete node type, the UnsupportedUuid sentinel
// included. The resolver layer inspects them to attach capability field resolvers.
func Prototypes() []Node {
	res := make([]Node, 0, len(dispatchTable)+1)
	for _, decode := range dispatchTable {
		node, _ := decode(Payload("{}"))
		res = append(res, node)
	}
	return append(res, &UnsupportedUuid{})
}

type decodeEventFunc func(Payload) (NotificationEvent, error)

func decodeEventAs[T any, PT interface {
	*T
	NotificationEvent
}](p Payload) (NotificationEvent, error) {
	var v T
	if err := json.Unmarshal(p, &v); err != nil {
		return nil, err
	}
	return PT(&v), nil
}

var eventTable = map[Typename]decodeEventFunc{
	TypenameCheckoutRevisionNotificationEvent:     decodeEventAs[CheckoutRevisionEvent],
	TypenameCreateCommentNotificationEvent:        decodeEventAs[CreateCommentEvent],
	TypenameCreateEntityNotificationEvent:         decodeEventAs[CreateEntityEvent],
	TypenameCreateEntityLinkNotificationEvent:     decodeEventAs[CreateEntityLinkEvent],
	TypenameCreateEntityRevisionNotificationEvent: decodeEventAs[CreateEntityRevisionEvent],
	TypenameCreateTaxonomyLinkNotificationEvent:   decodeEventAs[CreateTaxonomyLinkEvent],
	TypenameCreateTaxonomyTermNotificationEvent:   decodeEventAs[CreateTaxonomyTermEvent],
	TypenameCreateThreadNotificationEvent:         decodeEventAs[CreateThreadEvent],
	TypenameRejectRevisionNotificationEvent:       decodeEventAs[RejectRevisionEvent],
	TypenameRemoveEntityLinkNotificationEvent:     decodeEventAs[RemoveEntityLinkEvent],
	TypenameRemoveTaxonomyLinkNotificationEvent:   decodeEventAs[RemoveTaxonomyLinkEvent],
	TypenameSetLicenseNotificationEvent:           decodeEventAs[SetLicenseEvent],
	TypenameSetTaxonomyParentNotificationEvent:    decodeEventAs[SetTaxonomyParentEvent],
	TypenameSetTaxonomyTermNotificationEvent:      decodeEventAs[SetTaxonomyTermEvent],
	TypenameSetThreadStateNotificationEvent:       decodeEventAs[SetThreadStateEvent],
	TypenameSetUuidStateNotificationEvent:         decodeEventAs[SetUuidStateEvent],
}

// EventTypenames lists every supported notification event type.
func EventTypenames() []Typename {
	res := make([]Typename, 0, len(eventTable))
	for typename := range eventTable {
		res = append(res, typename)
	}
	return res
}

// DecodeEvent resolves a notification event payload by its __typename tag. A null payload
// resolves to nil, an unknown tag to an UnsupportedEvent.
func DecodeEvent(p Payload) (NotificationEvent, error) {
	if p.IsNull() {
		return nil, nil
	}
	if !p.Valid() {
		return nil, fmt.Errorf("model: malformed event payload")
	}
	typename := Typename(p.Typename())
	decode, ok := eventTable[typename]
	if !ok {
		return decodeEventAs[UnsupportedEvent](p)
	}
	event, err := decode(p)
	if err != nil {
		return nil, fmt.Errorf("model: decode %s payload %d: %w", typename, p.ID(), err)
	}
	return event, nil
}
