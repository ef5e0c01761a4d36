package model_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shyptr/serlo-gateway/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeUUID(t *testing.T) {
	t.Run("every documented tag pair maps to exactly one type", func(t *testing.T) {
		seen := map[model.Typename]string{}
		check := func(payload string) {
			node, err := model.DecodeUUID(model.Payload(payload))
			require.NoError(t, err, payload)
			require.NotNil(t, node, payload)
			assert.NotEqual(t, model.TypenameUnsupportedUuid, node.Typename(), payload)
			if previous, ok := seen[node.Typename()]; ok {
				t.Errorf("%s and %s both resolve to %s", previous, payload, node.Typename())
			}
			seen[node.Typename()] = payload
		}
		for _, discriminator := range []model.Discriminator{model.DiscriminatorEntity, model.DiscriminatorEntityRevision} {
			for _, entityType := range model.EntityTypes {
				check(fmt.Sprintf(`{"id":1,"discriminator":%q,"type":%q}`, discriminator, entityType))
			}
		}
		for _, discriminator := range model.Discriminators {
			if discriminator == model.DiscriminatorEntity || discriminator == model.DiscriminatorEntityRevision {
				continue
			}
			check(fmt.Sprintf(`{"id":1,"discriminator":%q}`, discriminator))
		}
		assert.Len(t, seen, 25)
	})

	t.Run("entity revisions resolve to the revision of their entity type", func(t *testing.T) {
		for _, entityType := range model.EntityTypes {
			entity, err := model.DecodeUUID(model.Payload(fmt.Sprintf(`{"id":1,"discriminator":"entity","type":%q}`, entityType)))
			require.NoError(t, err)
			revision, err := model.DecodeUUID(model.Payload(fmt.Sprintf(`{"id":2,"discriminator":"entityRevision","type":%q}`, entityType)))
			require.NoError(t, err)
			assert.Equal(t, entity.(model.Repository).RevisionTypename(), revision.Typename())
			assert.Equal(t, entity.Typename(), revision.(model.Revision).RepositoryTypename())
		}
	})

	t.Run("unknown type falls back to UnsupportedUuid", func(t *testing.T) {
		node, err := model.DecodeUUID(model.Payload(`{"id":7,"trashed":true,"discriminator":"entity","type":"zzz-unknown"}`))
		require.NoError(t, err)
		unsupported, ok := node.(*model.UnsupportedUuid)
		require.True(t, ok)
		assert.Equal(t, model.TypenameUnsupportedUuid, unsupported.Typename())
		assert.Equal(t, 7, unsupported.ID)
		assert.True(t, unsupported.Trashed)
		assert.Equal(t, "entity", unsupported.Discriminator)
		require.NotNil(t, unsupported.Type)
		assert.Equal(t, "zzz-unknown", *unsupported.Type)
	})

	t.Run("unknown discriminator falls back to UnsupportedUuid", func(t *testing.T) {
		node, err := model.DecodeUUID(model.Payload(`{"id":8,"discriminator":"attachment"}`))
		require.NoError(t, err)
		assert.Equal(t, model.TypenameUnsupportedUuid, node.Typename())
		assert.Nil(t, node.(*model.UnsupportedUuid).Type)
	})

	t.Run("null payload resolves to nil", func(t *testing.T) {
		for _, payload := range []model.Payload{nil, model.Payload("null"), model.Payload(" ")} {
			node, err := model.DecodeUUID(payload)
			assert.NoError(t, err)
			assert.Nil(t, node)
		}
	})

	t.Run("malformed payload is an error", func(t *testing.T) {
		_, err := model.DecodeUUID(model.Payload(`{"id":`))
		assert.Error(t, err)
	})

	t.Run("a supported tag with a malformed field is an error", func(t *testing.T) {
		_, err := model.DecodeUUID(model.Payload(`{"id":"x","discriminator":"user"}`))
		assert.Error(t, err)
	})
}

func TestDecodeUUIDRoundTrip(t *testing.T) {
	t.Run("article", func(t *testing.T) {
		node, err := model.DecodeUUID(model.Payload(`{
			"id": 1855, "trashed": false, "discriminator": "entity", "type": "article",
			"instance": "de", "alias": "/mathe/1855/parabel", "date": "2014-03-01T20:45:56Z",
			"currentRevisionId": 30674, "revisionIds": [30674, 30672], "licenseId": 1,
			"taxonomyTermIds": [5, 8]
		}`))
		require.NoError(t, err)
		article := node.(*model.Article)
		assert.Equal(t, 1855, article.ID)
		assert.False(t, article.Trashed)
		assert.Equal(t, model.InstanceDe, article.Instance)
		assert.Equal(t, "/mathe/1855/parabel", *article.Alias)
		assert.Equal(t, time.Date(2014, 3, 1, 20, 45, 56, 0, time.UTC), article.Date.UTC())
		assert.Equal(t, 30674, *article.CurrentRevision())
		assert.Equal(t, []int{30674, 30672}, article.Revisions())
		assert.Equal(t, 1, article.License())
		assert.Equal(t, []int{5, 8}, article.TaxonomyTerms())
	})

	t.Run("entity without current revision", func(t *testing.T) {
		node, err := model.DecodeUUID(model.Payload(`{"id":35596,"discriminator":"entity","type":"applet","currentRevisionId":null}`))
		require.NoError(t, err)
		assert.Nil(t, node.(model.Repository).CurrentRevision())
	})

	t.Run("grouped exercise revision shares the exercise revision shape", func(t *testing.T) {
		node, err := model.DecodeUUID(model.Payload(`{
			"id": 2220, "trashed": true, "discriminator": "entityRevision", "type": "groupedExercise",
			"date": "2014-03-01T20:45:56Z", "authorId": 1, "repositoryId": 2219,
			"content": "content", "changes": "changes"
		}`))
		require.NoError(t, err)
		revision := node.(*model.GroupedExerciseRevision)
		assert.Equal(t, 2220, revision.ID)
		assert.True(t, revision.Trashed)
		assert.Equal(t, 1, revision.Author())
		assert.Equal(t, 2219, revision.Repository())
		assert.Equal(t, "content", revision.Content)
		assert.Equal(t, "changes", revision.Changes)
		assert.Equal(t, model.TypenameGroupedExercise, revision.RepositoryTypename())
	})

	t.Run("applet revision", func(t *testing.T) {
		node, err := model.DecodeUUID(model.Payload(`{
			"id": 35597, "discriminator": "entityRevision", "type": "applet", "authorId": 1, "repositoryId": 35596,
			"url": "https://www.geogebra.org/m/x", "title": "title", "content": "content", "changes": "changes",
			"metaTitle": "metaTitle", "metaDescription": "metaDescription"
		}`))
		require.NoError(t, err)
		revision := node.(*model.AppletRevision)
		assert.Equal(t, "https://www.geogebra.org/m/x", revision.URL)
		assert.Equal(t, "title", revision.Title)
		assert.Equal(t, "metaTitle", revision.MetaTitle)
		assert.Equal(t, "metaDescription", revision.MetaDescription)
	})

	t.Run("taxonomy term", func(t *testing.T) {
		node, err := model.DecodeUUID(model.Payload(`{
			"id": 1385, "discriminator": "taxonomyTerm", "type": "topic", "instance": "de", "name": "Mathematik",
			"description": null, "weight": 2, "parentId": 8, "childrenIds": [1394, 1557], "taxonomyId": 4
		}`))
		require.NoError(t, err)
		term := node.(*model.TaxonomyTerm)
		assert.Equal(t, model.TaxonomyTermTypeTopic, term.Type)
		assert.Equal(t, "Mathematik", term.Name)
		assert.Nil(t, term.Description)
		assert.Equal(t, 2, term.Weight)
		assert.Equal(t, 8, *term.ParentID)
		assert.Equal(t, []int{1394, 1557}, term.ChildrenIDs)
		assert.Equal(t, 4, term.TaxonomyID)
	})

	t.Run("user", func(t *testing.T) {
		node, err := model.DecodeUUID(model.Payload(`{
			"id": 1, "discriminator": "user", "username": "admin", "date": "2014-03-01T20:36:21Z",
			"lastLogin": null, "description": "hello"
		}`))
		require.NoError(t, err)
		user := node.(*model.User)
		assert.Equal(t, "admin", user.Username)
		assert.Nil(t, user.LastLogin)
		assert.Equal(t, "hello", *user.Description)
	})
}

func TestPrototypes(t *testing.T) {
	prototypes := model.Prototypes()
	names := map[model.Typename]bool{}
	for _, node := range prototypes {
		names[node.Typename()] = true
	}
	assert.Len(t, names, 26)
	assert.True(t, names[model.TypenameUnsupportedUuid])
}

func TestDecodeEvent(t *testing.T) {
	t.Run("every event type decodes", func(t *testing.T) {
		for _, typename := range model.EventTypenames() {
			event, err := model.DecodeEvent(model.Payload(fmt.Sprintf(`{"__typename":%q,"id":1,"actorId":2}`, typename)))
			require.NoError(t, err)
			assert.Equal(t, typename, event.Typename())
			assert.Equal(t, 2, event.Actor())
		}
		assert.Len(t, model.EventTypenames(), 16)
	})

	t.Run("checkout revision", func(t *testing.T) {
		event, err := model.DecodeEvent(model.Payload(`{
			"__typename": "CheckoutRevisionNotificationEvent", "id": 301, "instance": "de",
			"date": "2014-03-01T20:45:56Z", "actorId": 1, "objectId": 1855,
			"repositoryId": 1855, "revisionId": 30674, "reason": "reason"
		}`))
		require.NoError(t, err)
		checkout := event.(*model.CheckoutRevisionEvent)
		assert.Equal(t, 301, checkout.ID)
		assert.Equal(t, 1855, checkout.ObjectID)
		assert.Equal(t, 1855, checkout.RepositoryID)
		assert.Equal(t, 30674, checkout.RevisionID)
		assert.Equal(t, "reason", checkout.Reason)
	})

	t.Run("set taxonomy parent with nullable parents", func(t *testing.T) {
		event, err := model.DecodeEvent(model.Payload(`{
			"__typename": "SetTaxonomyParentNotificationEvent", "id": 1, "actorId": 1,
			"previousParentId": null, "parentId": 8, "childId": 1385
		}`))
		require.NoError(t, err)
		parent := event.(*model.SetTaxonomyParentEvent)
		assert.Nil(t, parent.PreviousParentID)
		assert.Equal(t, 8, *parent.ParentID)
		assert.Equal(t, 1385, parent.ChildID)
	})

	t.Run("unknown type is kept as unsupported", func(t *testing.T) {
		event, err := model.DecodeEvent(model.Payload(`{"__typename":"FancyNotificationEvent","id":3}`))
		require.NoError(t, err)
		unsupported, ok := event.(*model.UnsupportedEvent)
		require.True(t, ok)
		assert.Equal(t, "FancyNotificationEvent", unsupported.Type)
		assert.Equal(t, 3, unsupported.GetID())
	})

	t.Run("null", func(t *testing.T) {
		event, err := model.DecodeEvent(nil)
		assert.NoError(t, err)
		assert.Nil(t, event)
	})
}
