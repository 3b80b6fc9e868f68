package database

import (
	"testing"

	"github.com/Shuixingchen/web3-compass/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestDecodeStringList(t *testing.T) {
	tests := []struct {
		name string
		raw  *string
		want []string
		ok   bool
		bad  bool
	}{
		{name: "absent", raw: nil, want: []string{}},
		{name: "blank", raw: ptr("  "), want: []string{}},
		{name: "null literal", raw: ptr("null"), want: []string{}, ok: true},
		{name: "array", raw: ptr(`["DeFi","AMM"]`), want: []string{"DeFi", "AMM"}, ok: true},
		{name: "malformed", raw: ptr(`["DeFi"`), want: []string{}, bad: true},
		{name: "wrong shape", raw: ptr(`{"a":1}`), want: []string{}, bad: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DecodeStringList(tt.raw)
			assert.Equal(t, tt.want, d.Value)
			assert.Equal(t, tt.ok, d.OK)
			assert.Equal(t, tt.bad, d.Err != nil)
		})
	}
}

func TestDecodeOfficialLinksIgnoresUnknownKeys(t *testing.T) {
	d := DecodeOfficialLinks(ptr(`{"github":"https://github.com/x","facebook":"https://fb.com/x"}`))
	require.True(t, d.OK)
	assert.Equal(t, "https://github.com/x", d.Value.Github)
	assert.Empty(t, d.Value.Website)
}

func TestNewProjectRecordEncodesLists(t *testing.T) {
	rec := NewProjectRecord(models.ProjectInput{
		Name:          "Test",
		Tags:          []string{"dex"},
		Chains:        []string{"Ethereum", "Arbitrum"},
		OfficialLinks: models.OfficialLinks{Website: "https://test.io"},
	}, 1, 11)

	require.NotNil(t, rec.Tags)
	assert.Equal(t, `["dex"]`, *rec.Tags)
	assert.Equal(t, `["Ethereum","Arbitrum"]`, *rec.Chains)
	assert.Equal(t, `{"website":"https://test.io"}`, *rec.OfficialLinks)
	assert.Nil(t, rec.Logo)
	assert.Nil(t, rec.DetailedDescription)
	assert.Equal(t, int64(11), *rec.SubcategoryID)

	// round trip through the read path
	assert.Equal(t, []string{"Ethereum", "Arbitrum"}, DecodeStringList(rec.Chains).Value)
}
