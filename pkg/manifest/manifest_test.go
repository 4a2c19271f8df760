package manifest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modlink/pkg/errors"
	"modlink/pkg/manifest"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		xml      string
		expected manifest.Meta
		wantErr  bool
	}{
		{
			name: "full manifest",
			xml: `<?xml version="1.0"?>
<package>
  <title>Better Farming</title>
  <id>better.farming</id>
  <version>1.2.0</version>
  <author>someone</author>
  <description>Improves farming.</description>
</package>`,
			expected: manifest.Meta{
				Title:       "Better Farming",
				ID:          "better.farming",
				Version:     "1.2.0",
				Author:      "someone",
				Description: "Improves farming.",
			},
		},
		{
			name: "missing elements leave fields empty",
			xml:  `<package><title>Sparse</title></package>`,
			expected: manifest.Meta{
				Title: "Sparse",
			},
		},
		{
			name:    "malformed XML",
			xml:     `<package><title>Broken`,
			wantErr: true,
		},
		{
			name:    "empty document",
			xml:     ``,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, err := manifest.Parse([]byte(tt.xml))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrManifestParse))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, meta)
		})
	}
}
