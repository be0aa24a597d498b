package primitive_test

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"

	"protobridge-generator/primitive"
)

func TestCastCategory(t *testing.T) {
	t.Parallel()

	t.Run("widening is safe", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, primitive.CategorySafeCast, primitive.CastCategory(primitive.KindUint32, primitive.KindUint64))
		assert.Equal(t, primitive.CategorySafeCast, primitive.CastCategory(primitive.KindInt8, primitive.KindFloat64))
		assert.Equal(t, primitive.CategorySafeCast, primitive.CastCategory(primitive.KindUint64, primitive.KindUint64))
	})

	t.Run("narrowing is flagged", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, primitive.CategoryNarrowingCast, primitive.CastCategory(primitive.KindUint64, primitive.KindUint32))
		assert.Equal(t, primitive.CategoryNarrowingCast, primitive.CastCategory(primitive.KindFloat64, primitive.KindFloat32))
		assert.Equal(t, primitive.CategoryNarrowingCast, primitive.CastCategory(primitive.KindInt64, primitive.KindInt32))
	})

	t.Run("duration casts as nanoseconds", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, primitive.CategoryDurationCast, primitive.CastCategory(primitive.KindInt64, primitive.KindDuration))
		assert.Equal(t, primitive.CategoryDurationCast, primitive.CastCategory(primitive.KindDuration, primitive.KindInt64))
		assert.Equal(t, primitive.CategoryNone, primitive.CastCategory(primitive.KindUint64, primitive.KindDuration))
	})

	t.Run("no cast between text and numbers", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, primitive.CategoryNone, primitive.CastCategory(primitive.KindString, primitive.KindInt32))
		assert.Equal(t, primitive.CategoryNone, primitive.CastCategory(primitive.KindBool, primitive.KindInt32))
	})
}

func TestCanCast(t *testing.T) {
	t.Parallel()

	assert.True(t, primitive.CanCast(primitive.KindUint32, primitive.KindUint64, primitive.CategoryAll))
	assert.True(t, primitive.CanCast(primitive.KindUint64, primitive.KindUint32, primitive.CategoryAll))
	assert.False(t, primitive.CanCast(primitive.KindUint64, primitive.KindUint32, primitive.CategorySafeCast))
	assert.False(t, primitive.CanCast(primitive.KindString, primitive.KindBool, primitive.CategoryAll))
}

func TestCastMatrixShape(t *testing.T) {
	t.Parallel()

	perCategory := make(map[primitive.CategoryEnum]int)
	for from := 1; from < primitive.KindTotal; from++ {
		for to := 1; to < primitive.KindTotal; to++ {
			category := primitive.CastCategory(primitive.KindEnum(from), primitive.KindEnum(to))
			perCategory[category]++
		}
	}

	assert.NotZero(t, perCategory[primitive.CategorySafeCast])
	assert.NotZero(t, perCategory[primitive.CategoryNarrowingCast])
	assert.NotZero(t, perCategory[primitive.CategoryDurationCast])

	for k := 1; k < primitive.KindTotal; k++ {
		kind := primitive.KindEnum(k)
		assert.Equal(t, primitive.CategorySafeCast, primitive.CastCategory(kind, kind), "identity cast for %s", kind)
	}

	spew.Dump(perCategory)
}

func TestDefaultNamesAllResolve(t *testing.T) {
	t.Parallel()

	for _, name := range primitive.DefaultNames() {
		assert.NotEqual(t, primitive.KindEnum(0), primitive.FromName(name), "name %q must map to a kind", name)
	}
}
