package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddress(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "street type abbreviation",
			input:    "123 Main Street",
			expected: "123 main st",
		},
		{
			name:     "ordinal and suite",
			input:    "456 First Avenue, Suite 5",
			expected: "456 1st ave ste 5",
		},
		{
			name:     "direction and borough",
			input:    "789 West 42nd St., New York",
			expected: "789 w 42nd st ny",
		},
		{
			name:     "landmark name",
			input:    "1211 Avenue of the Americas",
			expected: "1211 6th ave",
		},
		{
			name:     "collapses whitespace",
			input:    "  10   Downing    Street ",
			expected: "10 downing st",
		},
		{
			name:     "direction followed by comma",
			input:    "123 West, Broadway",
			expected: "123 w broadway",
		},
		{
			name:     "ampersand",
			input:    "Broadway & 72nd Street",
			expected: "broadway and 72nd st",
		},
		{
			name:     "placeholder value",
			input:    "N/A",
			expected: "",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Address(tt.input))
		})
	}
}

func TestAddressIdempotent(t *testing.T) {
	inputs := []string{
		"123 Main Street",
		"456 First Avenue, Suite 5",
		"789 West 42nd St., New York",
		"100 Centre Street West",
		"123 West, Broadway",
		"50 East. 8th Street",
	}

	for _, input := range inputs {
		once := Address(input)
		assert.Equal(t, once, Address(once), "Address(%q) should be idempotent", input)
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "formatted US number",
			input:    "(555) 123-4567",
			expected: "5551234567",
		},
		{
			name:     "dashed",
			input:    "555-123-4567",
			expected: "5551234567",
		},
		{
			name:     "leading country code",
			input:    "1-555-123-4567",
			expected: "5551234567",
		},
		{
			name:     "plus one with spaces",
			input:    "+1 555 123 4567",
			expected: "5551234567",
		},
		{
			name:     "international returned raw",
			input:    "+44 20 7946 0958",
			expected: "442079460958",
		},
		{
			name:     "short number returned raw",
			input:    "123-4567",
			expected: "1234567",
		},
		{
			name:     "placeholder",
			input:    "N/A",
			expected: "",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Phone(tt.input))
		})
	}
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "generic suffixes stripped in turn",
			input:    "Planet Fitness Gym",
			expected: "planet",
		},
		{
			name:     "city token is not a suffix",
			input:    "CrossFit Studio NYC",
			expected: "crossfit studio nyc",
		},
		{
			name:     "entity suffix then one generic",
			input:    "Equinox Fitness Center LLC",
			expected: "equinox fitness",
		},
		{
			name:     "neighborhood qualifier",
			input:    "Barry's - Chelsea",
			expected: "barry's",
		},
		{
			name:     "branch qualifier",
			input:    "Gold's Gym Brooklyn Branch",
			expected: "gold's",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanName(tt.input))
		})
	}
}

func TestDomain(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips www and scheme",
			input:    "https://www.equinox.com/clubs/tribeca",
			expected: "equinox.com",
		},
		{
			name:     "bare host",
			input:    "planetfitness.com",
			expected: "planetfitness.com",
		},
		{
			name:     "host with port",
			input:    "http://localhost:8080/gym",
			expected: "localhost",
		},
		{
			name:     "uppercase host",
			input:    "HTTP is not a url",
			expected: "",
		},
		{
			name:     "placeholder",
			input:    "N/A",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Domain(tt.input))
		})
	}
}

func TestZipCode(t *testing.T) {
	assert.Equal(t, "10001", ZipCode("123 Main St, New York, NY 10001"))
	assert.Equal(t, "", ZipCode("123 Main St"))
	assert.Equal(t, "94103", ZipCode("94103-1234"))
}

func TestApplyChain(t *testing.T) {
	result := ApplyChain("  (555) 123-4567  ", "trim", "nphone")
	assert.Equal(t, "5551234567", result)

	// Unknown normalizer names pass the value through untouched.
	assert.Equal(t, "abc", Apply("abc", "does_not_exist"))
}
