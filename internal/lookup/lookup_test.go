package lookup

import (
	"testing"

	"assetdesk/internal/models"

	"github.com/stretchr/testify/assert"
)

func int64Ptr(v int64) *int64 { return &v }

func TestIndex_ResolvesKnownEntities(t *testing.T) {
	idx := New(
		[]models.Asset{{ID: 1, Tag: "PC-001", Serial: "SN-9"}, {ID: 2, Tag: "PR-002"}},
		[]models.User{{ID: 7, FirstName: "Ana", LastName: "Ruiz"}, {ID: 8, Email: "ops@example.com"}},
		[]models.Site{{ID: 3, Name: "Sede Norte"}},
	)

	assert.Equal(t, "PC-001 - SN-9", idx.Asset(1))
	assert.Equal(t, "PR-002", idx.Asset(2))
	assert.Equal(t, "Ana Ruiz", idx.User(7))
	assert.Equal(t, "ops@example.com", idx.User(8))
	assert.Equal(t, "Sede Norte", idx.SiteRef(int64Ptr(3)))
	assert.Equal(t, "Ana Ruiz, ops@example.com", idx.Users([]int64{7, 8}))
}

func TestIndex_Fallbacks(t *testing.T) {
	idx := New(nil, nil, nil)

	assert.Equal(t, "ID: 42", idx.Asset(42))
	assert.Equal(t, "ID: 5", idx.User(5))
	assert.Equal(t, "ID: 9", idx.Site(9))
	assert.Equal(t, NotAvailable, idx.SiteRef(nil))
	assert.Equal(t, NotAvailable, idx.UserRef(nil))
	assert.Equal(t, NotAvailable, idx.Users(nil))
	assert.Equal(t, "ID: 5, ID: 6", idx.Users([]int64{5, 6}))
}

func TestIndex_NilReceiver(t *testing.T) {
	var idx *Index

	assert.Equal(t, "ID: 1", idx.Asset(1))
	assert.Equal(t, "ID: 2", idx.User(2))
	assert.Equal(t, "ID: 3", idx.SiteRef(int64Ptr(3)))
}
