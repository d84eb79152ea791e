package caching

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestFilterStateKey(t *testing.T) {
	id := uuid.MustParse("3f1c2a9e-8d4b-4c1e-9a55-0b6f7d2e1c34")

	assert.Equal(t, "assetdesk:filters:3f1c2a9e-8d4b-4c1e-9a55-0b6f7d2e1c34:inventoryTable", FilterStateKey(id, "inventoryTable"))
	assert.NotEqual(t, FilterStateKey(id, "inventoryTable"), FilterStateKey(uuid.New(), "inventoryTable"))
}
