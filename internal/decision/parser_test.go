package decision

import (
	"testing"

	"bidsmith/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodJSON = `{
  "strategy": "proxy_max",
  "recommended_bid_amount": 700,
  "confidence": 0.8,
  "risk_level": "medium",
  "reasoning": "Profit margin protected by proxy cap; competition is moderate and risk acceptable."
}`

func TestExtractPlainObject(t *testing.T) {
	out, err := ExtractDecisionJSON(goodJSON)
	require.NoError(t, err)
	assert.JSONEq(t, goodJSON, out)
}

func TestExtractFencedJSON(t *testing.T) {
	raw := "Here is my answer:\n```json\n" + goodJSON + "\n```\nHope that helps."
	out, err := ExtractDecisionJSON(raw)
	require.NoError(t, err)
	assert.JSONEq(t, goodJSON, out)
}

func TestExtractEmbeddedObject(t *testing.T) {
	raw := "After thinking about it carefully: " + goodJSON + " -- done"
	out, err := ExtractDecisionJSON(raw)
	require.NoError(t, err)
	assert.JSONEq(t, goodJSON, out)
}

func TestExtractRejectsGarbage(t *testing.T) {
	_, err := ExtractDecisionJSON("no json at all")
	assert.Error(t, err)

	_, err = ExtractDecisionJSON("")
	assert.Error(t, err)

	_, err = ExtractDecisionJSON("{ truncated")
	assert.Error(t, err)
}

func TestCoerceValid(t *testing.T) {
	d, err := CoerceStrategyDecision(goodJSON)
	require.NoError(t, err)
	assert.Equal(t, types.StrategyProxyMax, d.Strategy)
	assert.Equal(t, 700.0, d.RecommendedBidAmount)
	assert.Equal(t, types.RiskMedium, d.RiskLevel)
	assert.Equal(t, 700.0, d.MaxBudgetForDomain)
}

func TestCoerceNormalizesCase(t *testing.T) {
	raw := `{"strategy":"PROXY_MAX","recommended_bid_amount":1,"confidence":0.5,"risk_level":"Medium",
		"reasoning":"Long enough reasoning about profit and risk to clear the fifty char floor."}`
	d, err := CoerceStrategyDecision(raw)
	require.NoError(t, err)
	assert.Equal(t, types.StrategyProxyMax, d.Strategy)
	assert.Equal(t, types.RiskMedium, d.RiskLevel)
}

func TestCoerceRejectsSemanticImpossibility(t *testing.T) {
	cases := []string{
		`{"strategy":"proxy_max","recommended_bid_amount":-5,"confidence":0.5,"risk_level":"low","reasoning":"` + pad() + `"}`,
		`{"strategy":"buy_everything","recommended_bid_amount":5,"confidence":0.5,"risk_level":"low","reasoning":"` + pad() + `"}`,
		`{"strategy":"proxy_max","recommended_bid_amount":5,"confidence":1.5,"risk_level":"low","reasoning":"` + pad() + `"}`,
		`{"strategy":"proxy_max","recommended_bid_amount":5,"confidence":0.5,"risk_level":"extreme","reasoning":"` + pad() + `"}`,
		`{"strategy":"proxy_max","recommended_bid_amount":5,"confidence":0.5,"risk_level":"low","reasoning":"short"}`,
	}
	for _, raw := range cases {
		_, err := CoerceStrategyDecision(raw)
		assert.Error(t, err, raw)
	}
}

func TestSchemaValidate(t *testing.T) {
	schema, err := LoadSchema("")
	require.NoError(t, err)

	assert.NoError(t, schema.Validate(goodJSON))
	assert.Error(t, schema.Validate(`{"strategy":"proxy_max"}`), "缺必填字段")
	assert.Error(t, schema.Validate(`not json`))
}

func pad() string {
	return "profit and risk reasoning padded well beyond the minimum fifty characters required here"
}
