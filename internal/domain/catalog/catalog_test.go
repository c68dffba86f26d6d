package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEffectivePrice_NoDiscount(t *testing.T) {
	m := MenuItem{Price: decimal.RequireFromString("24.50")}

	assert.True(t, decimal.RequireFromString("24.50").Equal(m.EffectivePrice()))
}

func TestEffectivePrice_Percentage(t *testing.T) {
	m := MenuItem{Price: decimal.RequireFromString("40.00"), Discount: 25}

	assert.True(t, decimal.RequireFromString("30.00").Equal(m.EffectivePrice()))
}

func TestEffectivePrice_Rounded(t *testing.T) {
	// 9.99 * 0.85 = 8.4915 -> 8.49
	m := MenuItem{Price: decimal.RequireFromString("9.99"), Discount: 15}

	assert.True(t, decimal.RequireFromString("8.49").Equal(m.EffectivePrice()))
}

func TestEffectivePrice_FullDiscount(t *testing.T) {
	m := MenuItem{Price: decimal.RequireFromString("18.00"), Discount: 100}

	assert.True(t, m.EffectivePrice().IsZero())
}

func TestEffectivePrice_ClampedAbove100(t *testing.T) {
	m := MenuItem{Price: decimal.RequireFromString("18.00"), Discount: 130}

	assert.True(t, m.EffectivePrice().IsZero())
}

func TestEffectivePrice_NegativeDiscountIgnored(t *testing.T) {
	m := MenuItem{Price: decimal.RequireFromString("12.00"), Discount: -10}

	assert.True(t, decimal.RequireFromString("12.00").Equal(m.EffectivePrice()))
}
