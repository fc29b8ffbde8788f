package persistence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "already canonical", input: "acme-studio", want: "acme-studio"},
		{name: "mixed case collapses", input: "  Acme-Studio ", want: "acme-studio"},
		{name: "digits only", input: "2024", want: "2024"},
		{name: "blank", input: "   ", wantErr: ErrSlugRequired},
		{name: "underscore", input: "acme_studio", wantErr: ErrSlugInvalid},
		{name: "double hyphen", input: "acme--studio", wantErr: ErrSlugInvalid},
		{name: "edge hyphen", input: "-acme", wantErr: ErrSlugInvalid},
		{name: "inner space", input: "acme studio", wantErr: ErrSlugInvalid},
		{name: "longest accepted", input: strings.Repeat("a", MaxSlugLength), want: strings.Repeat("a", MaxSlugLength)},
		{name: "too long", input: strings.Repeat("a", MaxSlugLength+1), wantErr: ErrSlugTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			slug, err := NormalizeSlug(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, slug)
		})
	}
}
