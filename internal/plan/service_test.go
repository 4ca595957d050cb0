package plan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_GetAllPlans(t *testing.T) {
	svc := NewService(DefaultCatalog())

	plans, err := svc.GetAllPlans(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 3)

	assert.Equal(t, "starter", plans[0].ID)
	assert.Equal(t, 949, plans[0].PriceTRY)
	assert.Equal(t, 27, plans[0].PriceUSD)
	assert.Equal(t, 10, plans[0].MaxVideoDuration)
	assert.Equal(t, "Business", plans[2].Name)
	assert.Contains(t, plans[2].Features, "white_label")
}

func TestService_GetAllPlans_ReturnsCopies(t *testing.T) {
	c := DefaultCatalog()
	svc := NewService(c)

	plans, err := svc.GetAllPlans(context.Background())
	require.NoError(t, err)
	plans[0].Features[0] = "mutated"

	starter, _ := c.Resolve(Starter)
	assert.Equal(t, "hd_video", starter.Features[0])
}
