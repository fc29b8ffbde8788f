package apperror

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidationErrorUnwrapsToKind(t *testing.T) {
	err := Validation("slug", "slug is required")
	require.ErrorIs(t, err, ErrValidation)
	require.Equal(t, "validation error: slug: slug is required", err.Error())

	var vErr *ValidationError
	require.True(t, errors.As(error(err), &vErr))
	require.Equal(t, []string{"slug is required"}, vErr.Fields["slug"])
}

func TestFromFieldsEmptyIsNil(t *testing.T) {
	require.NoError(t, FromFields(FieldErrors{}))

	fe := FieldErrors{}
	fe.Add("b", "second")
	fe.Add("a", "first")
	err := FromFields(fe)
	require.ErrorIs(t, err, ErrValidation)
	require.Equal(t, "validation error: a: first, b: second", err.Error())
}

func TestCollaboratorWrappers(t *testing.T) {
	cause := errors.New("connection reset")

	err := DataStore("save profile", cause)
	require.ErrorIs(t, err, ErrDataStore)
	require.ErrorIs(t, err, cause)

	err = AssetStore("put object", cause)
	require.ErrorIs(t, err, ErrAssetStore)
	require.ErrorIs(t, err, cause)

	require.NoError(t, DataStore("noop", nil))
	require.NoError(t, AssetStore("noop", nil))
}
