package errdef

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	require.Equal(t, KindUnknown, KindOf(nil))
	require.Equal(t, KindUnknown, KindOf(errors.New("plain")))

	require.Equal(t, KindNotFound, KindOf(NotFound("missing")))
	require.Equal(t, KindInvalidState, KindOf(InvalidState("bad state")))
	require.Equal(t, KindValidation, KindOf(Validation("bad input")))
	require.Equal(t, KindForbidden, KindOf(Forbidden("banned")))
	require.Equal(t, KindConflict, KindOf(Conflict("lost race")))
}

func TestKindSurvivesWrapping(t *testing.T) {
	// dao 层常用 errors.Wrap 补充上下文, 分类标签必须穿透
	err := errors.Wrap(NotFound("auction not found"), "failed on get auction")
	require.True(t, IsNotFound(err))
	require.Contains(t, err.Error(), "auction not found")

	err = WrapNotFound(errors.New("record not found"), "auction not found")
	require.True(t, IsNotFound(err))
}

func TestIsHelpers(t *testing.T) {
	err := Conflict("bid lost the race")
	require.True(t, IsConflict(err))
	require.False(t, IsValidation(err))
	require.False(t, IsNotFound(err))
	require.False(t, IsForbidden(err))
	require.False(t, IsInvalidState(err))
}
