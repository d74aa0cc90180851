package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testURL = "http://a.test"

func TestCleanText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "John Smith", CleanText("  John   Smith "))
	assert.Equal(t, "a b c", CleanText("a\n\tb \r\n c"))
	assert.Equal(t, "", CleanText("   "))
}

func TestDefaultContact(t *testing.T) {
	t.Parallel()

	c := DefaultContact()
	assert.Equal(t, "No Business Name available", c.BusinessName)
	assert.Equal(t, "No Employees available", c.Employees)
	assert.Equal(t, "No address available", c.Address)
	assert.Equal(t, "No contact name available", c.ContactName)
	assert.Equal(t, "No contact phone available", c.ContactPhone)
	assert.Equal(t, "No contact email available", c.ContactEmail)
	assert.Equal(t, "No contact website available", c.ContactWebsite)
}

func TestFieldsCatalog(t *testing.T) {
	t.Parallel()

	require.Len(t, Fields, 7)
	seen := map[string]bool{}
	for _, f := range Fields {
		assert.NotEmpty(t, f.XPath, f.Name)
		assert.NotEmpty(t, f.Default, f.Name)
		assert.False(t, seen[f.Name], "duplicate field %s", f.Name)
		seen[f.Name] = true
	}
}

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result string
		check  func(t *testing.T, c Contact)
	}{
		{
			name:   "text objects are whitespace normalized",
			result: `[{"http://a.test": {"Contact_Name": [{"text": "  John   Smith "}]}}]`,
			check: func(t *testing.T, c Contact) {
				assert.Equal(t, "John Smith", c.ContactName)
				assert.Equal(t, "No contact email available", c.ContactEmail)
			},
		},
		{
			name:   "plain string values",
			result: `[{"http://a.test": {"Contact_email": ["  info@acme.test\n"], "employes": ["12"]}}]`,
			check: func(t *testing.T, c Contact) {
				assert.Equal(t, "info@acme.test", c.ContactEmail)
				assert.Equal(t, "12", c.Employees)
			},
		},
		{
			name:   "other url entries are ignored",
			result: `[{"http://b.test": {"BuisnessName": [{"text": "Other"}]}}, "junk", 4]`,
			check: func(t *testing.T, c Contact) {
				assert.Equal(t, DefaultContact(), c)
			},
		},
		{
			name: "later url matches override earlier ones",
			result: `[
				{"http://a.test": {"BuisnessName": [{"text": "First"}], "Address": ["1 Main St"]}},
				{"http://a.test": {"BuisnessName": [{"text": "Second"}]}}
			]`,
			check: func(t *testing.T, c Contact) {
				assert.Equal(t, "Second", c.BusinessName)
				assert.Equal(t, "1 Main St", c.Address)
			},
		},
		{
			name:   "object keyed by url",
			result: `{"http://a.test": {"Contact_Website": [{"text": "acme.test"}]}}`,
			check: func(t *testing.T, c Contact) {
				assert.Equal(t, "acme.test", c.ContactWebsite)
			},
		},
		{
			name:   "flat object is read directly",
			result: `{"Contact_phone": ["555 0100"]}`,
			check: func(t *testing.T, c Contact) {
				assert.Equal(t, "555 0100", c.ContactPhone)
			},
		},
		{
			name:   "unusable values fall back to defaults",
			result: `[{"http://a.test": {"BuisnessName": [], "Address": [{"html": "<b>x</b>"}], "employes": [7], "Contact_Name": [{"text": 3}], "Contact_phone": "555"}}]`,
			check: func(t *testing.T, c Contact) {
				assert.Equal(t, DefaultContact(), c)
			},
		},
		{
			name:   "empty list result",
			result: `[]`,
			check: func(t *testing.T, c Contact) {
				assert.Equal(t, DefaultContact(), c)
			},
		},
		{
			name:   "invalid json",
			result: `{"broken`,
			check: func(t *testing.T, c Contact) {
				assert.Equal(t, DefaultContact(), c)
			},
		},
		{
			name:   "scalar result",
			result: `"done"`,
			check: func(t *testing.T, c Contact) {
				assert.Equal(t, DefaultContact(), c)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.check(t, Extract(json.RawMessage(tt.result), testURL))
		})
	}
}

func TestExtractNilResult(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultContact(), Extract(nil, testURL))
}
