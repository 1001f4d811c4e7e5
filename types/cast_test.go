package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversionDistance(t *testing.T) {
	tests := []struct {
		src, dest Type
		dist      int
		ok        bool
	}{
		{PrimInt, PrimInt, 0, true},
		{PrimChar, PrimInt, 1, true},
		{PrimChar, PrimDouble, 4, true},
		{PrimInt, PrimLong, 1, true},
		{PrimLong, PrimFloat, 1, true},
		{PrimLong, PrimInt, 0, false},
		{PrimDouble, PrimFloat, 0, false},
		{PrimBool, PrimInt, 0, false},
		{PrimInt, PrimBool, 0, false},
		{Null, String, 1, true},
		{Null, NewArray(PrimInt, 1), 1, true},
		{Null, &ClassType{Name: "Foo"}, 1, true},
		{Null, PrimInt, 0, false},
		{String, String, 0, true},
		{NewArray(PrimInt, 1), NewArray(PrimLong, 1), 0, false},
		{NewArray(PrimInt, 2), NewArray(PrimInt, 2), 0, true},
		{&ClassType{Name: "A"}, &ClassType{Name: "B"}, 0, false},
	}

	for _, test := range tests {
		t.Run(test.src.Repr()+"->"+test.dest.Repr(), func(t *testing.T) {
			dist, ok := ConversionDistance(test.src, test.dest)
			require.Equal(t, test.ok, ok)

			if ok {
				assert.Equal(t, test.dist, dist)
			}

			assert.Equal(t, test.ok, Cast(test.src, test.dest))
		})
	}
}

func TestCanCastExplicit(t *testing.T) {
	assert.True(t, CanCastExplicit(PrimDouble, PrimChar))
	assert.True(t, CanCastExplicit(PrimLong, PrimInt))
	assert.True(t, CanCastExplicit(Null, String))
	assert.False(t, CanCastExplicit(PrimBool, PrimInt))
	assert.False(t, CanCastExplicit(String, PrimInt))
	assert.False(t, CanCastExplicit(PrimInt, String))
}

func TestPromote(t *testing.T) {
	tests := []struct {
		l, r Type
		want PrimitiveType
		ok   bool
	}{
		{PrimChar, PrimChar, PrimInt, true},
		{PrimChar, PrimLong, PrimLong, true},
		{PrimInt, PrimFloat, PrimFloat, true},
		{PrimDouble, PrimInt, PrimDouble, true},
		{PrimBool, PrimInt, 0, false},
		{String, PrimInt, 0, false},
	}

	for _, test := range tests {
		got, ok := Promote(test.l, test.r)
		assert.Equal(t, test.ok, ok, "%s, %s", test.l.Repr(), test.r.Repr())
		if ok {
			assert.Equal(t, test.want, got, "%s, %s", test.l.Repr(), test.r.Repr())
		}
	}

	pt, ok := PromoteUnary(PrimChar)
	assert.True(t, ok)
	assert.Equal(t, PrimInt, pt)
}

// -----------------------------------------------------------------------------

func TestIntLiteralType(t *testing.T) {
	typ, err := IntLiteralType(math.MaxInt32, false, 0)
	require.NoError(t, err)
	assert.Equal(t, PrimInt, typ)

	typ, err = IntLiteralType(1<<31, true, 0)
	require.NoError(t, err)
	assert.Equal(t, PrimInt, typ)

	_, err = IntLiteralType(1<<31, false, 0)
	assert.Error(t, err)

	typ, err = IntLiteralType(1<<31, false, 'L')
	require.NoError(t, err)
	assert.Equal(t, PrimLong, typ)

	typ, err = IntLiteralType(1<<63, true, 'l')
	require.NoError(t, err)
	assert.Equal(t, PrimLong, typ)

	_, err = IntLiteralType(1<<63, false, 'L')
	assert.Error(t, err)
}

func TestFloatLiteralType(t *testing.T) {
	assert.Equal(t, PrimFloat, FloatLiteralType('f'))
	assert.Equal(t, PrimFloat, FloatLiteralType('F'))
	assert.Equal(t, PrimDouble, FloatLiteralType('d'))
	assert.Equal(t, PrimDouble, FloatLiteralType(0))
}

func TestLiteralFits(t *testing.T) {
	assert.True(t, IntLiteralFits(65, PrimChar))
	assert.False(t, IntLiteralFits(-1, PrimChar))
	assert.False(t, IntLiteralFits(256, PrimChar))
	assert.True(t, IntLiteralFits(math.MinInt32, PrimInt))
	assert.False(t, IntLiteralFits(math.MaxInt32+1, PrimInt))
	assert.False(t, IntLiteralFits(1, PrimBool))
	assert.False(t, IntLiteralFits(1, String))

	assert.True(t, FloatLiteralFits(1.5, PrimFloat))
	assert.True(t, FloatLiteralFits(0, PrimFloat))
	assert.False(t, FloatLiteralFits(1e300, PrimFloat))
	assert.False(t, FloatLiteralFits(1e-300, PrimFloat))
	assert.True(t, FloatLiteralFits(1e300, PrimDouble))
	assert.False(t, FloatLiteralFits(1.0, PrimLong))
}

// -----------------------------------------------------------------------------

func TestTypeRepr(t *testing.T) {
	assert.Equal(t, "int[][]", NewArray(PrimInt, 2).Repr())
	assert.Equal(t, "string", String.Repr())
	assert.Equal(t, "Foo[]", NewArray(&ClassType{Name: "Foo"}, 1).Repr())
	assert.Equal(t, "int, double", ReprList([]Type{PrimInt, PrimDouble}))
}

func TestErasure(t *testing.T) {
	assert.Equal(t, "I", PrimInt.Erasure())
	assert.Equal(t, "J", PrimLong.Erasure())
	assert.Equal(t, "Z", PrimBool.Erasure())
	assert.Equal(t, "A2C", NewArray(PrimChar, 2).Erasure())
	assert.Equal(t, "A1LFoo_", NewArray(&ClassType{Name: "Foo"}, 1).Erasure())
	assert.NotEqual(t, String.Erasure(), (&ClassType{Name: "S"}).Erasure())
}

func TestArrayIndexType(t *testing.T) {
	assert.True(t, NewArray(PrimInt, 3).Equals(NewArray(NewArray(PrimInt, 1), 2)))
	assert.True(t, PrimInt.Equals(NewArray(PrimInt, 1).IndexType()))
	assert.True(t, NewArray(PrimInt, 1).Equals(NewArray(PrimInt, 2).IndexType()))
}
