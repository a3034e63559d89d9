package dict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldDetail(t *testing.T) {
	d := loadTestVersion(t)

	fd, err := d.FieldDetailByTag(54)
	require.NoError(t, err)
	assert.Equal(t, "Side", fd.Name)
	require.Len(t, fd.Enums, 2)
	assert.Equal(t, "Buy", fd.Enums[0].SymbolicName)
	assert.Equal(t, []string{"ExecutionReport", "NewOrderSingle"}, fd.UsageInMessages)
	assert.Empty(t, fd.UsageInComponents)

	// fields without codes still return an empty slice, not null
	fd, err = d.FieldDetailByTag(11)
	require.NoError(t, err)
	assert.NotNil(t, fd.Enums)
	assert.Empty(t, fd.Enums)

	byName, err := d.FieldDetailByName("side")
	require.NoError(t, err)
	assert.Equal(t, 54, byName.Tag)
}

func TestMessageDetail(t *testing.T) {
	d := loadTestVersion(t)

	md, err := d.MessageDetailByType("D")
	require.NoError(t, err)
	assert.Equal(t, "NewOrderSingle", md.Name)
	assert.Len(t, md.Contents, 7)
	require.Len(t, md.Fields, 5)
	assert.Equal(t, 11, md.Fields[0].Tag)
	require.Len(t, md.Components, 2)
	assert.Equal(t, "Parties", md.Components[0].Name)

	// a contents-free message yields empty slices
	md, err = d.MessageDetailByType("0")
	require.NoError(t, err)
	assert.Empty(t, md.Contents)
	assert.Empty(t, md.Fields)
	assert.Empty(t, md.Components)

	_, err = d.MessageDetailByType("ZZ")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestComponentDetail(t *testing.T) {
	d := loadTestVersion(t)

	cd, err := d.ComponentDetailByName("Parties")
	require.NoError(t, err)
	assert.Equal(t, 1012, cd.ComponentID)
	assert.Len(t, cd.Contents, 3)
	require.Len(t, cd.Fields, 3)
	assert.Equal(t, 453, cd.Fields[0].Tag)
	assert.Empty(t, cd.NestedComponents)
	assert.Equal(t, []string{"NewOrderSingle"}, cd.UsageInMessages)

	_, err = d.ComponentDetailByName("NoSuchBlock")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestCodeset(t *testing.T) {
	d := loadTestVersion(t)

	enums, err := d.Codeset(40)
	require.NoError(t, err)
	require.Len(t, enums, 2)
	assert.Equal(t, "Market", enums[0].SymbolicName)

	var nf *NotFoundError
	_, err = d.Codeset(11) // exists but owns no codes
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "codeset", nf.Entity)

	_, err = d.Codeset(99999)
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "field", nf.Entity)
}
