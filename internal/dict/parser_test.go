package dict

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestVersion(t *testing.T) *Dictionary {
	t.Helper()
	d, err := LoadVersion("testdata", "FIX.TEST")
	require.NoError(t, err)
	return d
}

// writeVersion lays out a throwaway version directory for failure-path tests.
func writeVersion(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	base := filepath.Join(dir, "FIX.TMP", "Base")
	require.NoError(t, os.MkdirAll(base, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(base, name), []byte(content), 0o644))
	}
	return dir
}

const (
	minFields = `<Fields><Field added="FIX.4.0"><Tag>1</Tag><Name>Account</Name><Type>String</Type></Field></Fields>`
	minComps  = `<Components></Components>`
	minMsgs   = `<Messages><Message><ComponentID>2</ComponentID><MsgType>D</MsgType><Name>NewOrderSingle</Name></Message></Messages>`
	minLinks  = `<MsgContents><MsgContent><ComponentID>2</ComponentID><TagText>1</TagText><Position>1</Position><Reqd>1</Reqd></MsgContent></MsgContents>`
)

func TestLoadVersionTables(t *testing.T) {
	d := loadTestVersion(t)

	assert.Equal(t, "FIX.TEST", d.Version)
	assert.Len(t, d.Fields, 9, "the tagless record must be dropped")
	assert.Len(t, d.Messages, 3)
	assert.Len(t, d.Components, 2)
	assert.Len(t, d.Enums, 4)
	assert.Len(t, d.Categories, 3)
	assert.Len(t, d.Sections, 2)
	assert.Len(t, d.Datatypes, 6)
	assert.Len(t, d.Abbreviations, 3)
	assert.Len(t, d.MsgContents, 14)
}

func TestLoadVersionFieldDetails(t *testing.T) {
	d := loadTestVersion(t)

	f, err := d.FieldByTag(38)
	require.NoError(t, err)
	assert.Equal(t, "OrderQty", f.Name)
	assert.Equal(t, "Qty", f.Type)
	assert.Equal(t, "FIX.2.7", f.Added)
	assert.Equal(t, "FIX.4.3", f.Updated)
	assert.Equal(t, "Added: FIX.2.7, Updated: FIX.4.3", f.Pedigree.String())

	group, err := d.FieldByTag(453)
	require.NoError(t, err)
	assert.True(t, group.NotReqXML)

	_, err = d.FieldByTag(99999)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "field", nf.Entity)
}

func TestLoadVersionNameLookupsFoldCase(t *testing.T) {
	d := loadTestVersion(t)

	f, err := d.FieldByName("orderqty")
	require.NoError(t, err)
	assert.Equal(t, 38, f.Tag)

	c, err := d.ComponentByName("PARTIES")
	require.NoError(t, err)
	assert.Equal(t, 1012, c.ComponentID)
	assert.True(t, c.IsRepeatingGroup())

	instr, err := d.ComponentByName("Instrument")
	require.NoError(t, err)
	assert.False(t, instr.IsRepeatingGroup())
}

func TestLoadVersionEnumsSortedForDisplay(t *testing.T) {
	d := loadTestVersion(t)

	es := d.EnumsForField(54)
	require.Len(t, es, 2)
	assert.Equal(t, "Buy", es[0].SymbolicName)
	assert.Equal(t, "Sell", es[1].SymbolicName)
}

func TestLoadVersionContentsOrderedByPosition(t *testing.T) {
	d := loadTestVersion(t)

	cs := d.ContentsOf(2)
	require.Len(t, cs, 7)
	assert.Equal(t, "11", cs[0].TagText)
	assert.Equal(t, "Parties", cs[1].TagText)
	assert.Equal(t, "Instrument", cs[2].TagText)
	assert.Equal(t, "60", cs[6].TagText)
	for i := 1; i < len(cs); i++ {
		assert.LessOrEqual(t, cs[i-1].Position, cs[i].Position)
	}
}

func TestLoadVersionMissingDirectory(t *testing.T) {
	_, err := LoadVersion("testdata", "FIX.NOPE")
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "FIX.NOPE", le.Version)
}

func TestLoadVersionMissingRequiredSource(t *testing.T) {
	dir := writeVersion(t, map[string]string{
		"Fields.xml":     minFields,
		"Components.xml": minComps,
		"Messages.xml":   minMsgs,
		// MsgContents.xml absent
	})
	_, err := LoadVersion(dir, "FIX.TMP")
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "MsgContents.xml", le.Source)
}

func TestLoadVersionUnparsableRequiredSource(t *testing.T) {
	dir := writeVersion(t, map[string]string{
		"Fields.xml":      "<Fields><Field>",
		"Components.xml":  minComps,
		"Messages.xml":    minMsgs,
		"MsgContents.xml": minLinks,
	})
	_, err := LoadVersion(dir, "FIX.TMP")
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "Fields.xml", le.Source)
}

func TestLoadVersionOptionalSourcesDegrade(t *testing.T) {
	dir := writeVersion(t, map[string]string{
		"Fields.xml":      minFields,
		"Components.xml":  minComps,
		"Messages.xml":    minMsgs,
		"MsgContents.xml": minLinks,
	})
	d, err := LoadVersion(dir, "FIX.TMP")
	require.NoError(t, err)
	assert.Empty(t, d.Enums)
	assert.Empty(t, d.Sections)
	assert.Empty(t, d.EnumsForField(1))

	// the version is still fully navigable
	m, err := d.MessageByType("D")
	require.NoError(t, err)
	assert.Equal(t, 2, m.ComponentID)
}

func TestLoadVersionDuplicatePrimaryKeyFirstWins(t *testing.T) {
	dir := writeVersion(t, map[string]string{
		"Fields.xml": `<Fields>
			<Field><Tag>1</Tag><Name>Account</Name><Type>String</Type></Field>
			<Field><Tag>1</Tag><Name>Impostor</Name><Type>int</Type></Field>
		</Fields>`,
		"Components.xml":  minComps,
		"Messages.xml":    minMsgs,
		"MsgContents.xml": minLinks,
	})
	d, err := LoadVersion(dir, "FIX.TMP")
	require.NoError(t, err)
	require.Len(t, d.Fields, 1)
	f, err := d.FieldByTag(1)
	require.NoError(t, err)
	assert.Equal(t, "Account", f.Name)
}

func TestLoadErrorUnwraps(t *testing.T) {
	inner := errors.New("boom")
	le := &LoadError{Version: "v", Source: "s", Err: inner}
	assert.ErrorIs(t, le, inner)
}
