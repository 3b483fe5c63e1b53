package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/asset-service/internal/domain"
)

func TestIsValidAssetTransition(t *testing.T) {
	allowed := []struct{ from, to domain.AssetStatus }{
		{domain.AssetStatusProcurement, domain.AssetStatusInStock},
		{domain.AssetStatusInStock, domain.AssetStatusDeployed},
		{domain.AssetStatusInStock, domain.AssetStatusReserved},
		{domain.AssetStatusInStock, domain.AssetStatusRetired},
		{domain.AssetStatusDeployed, domain.AssetStatusInStock},
		{domain.AssetStatusDeployed, domain.AssetStatusLost},
		{domain.AssetStatusMaintenance, domain.AssetStatusInStock},
		{domain.AssetStatusReserved, domain.AssetStatusDeployed},
		{domain.AssetStatusLost, domain.AssetStatusInStock},
		{domain.AssetStatusLost, domain.AssetStatusRetired},
	}
	for _, tc := range allowed {
		assert.True(t, IsValidAssetTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	rejected := []struct{ from, to domain.AssetStatus }{
		{domain.AssetStatusProcurement, domain.AssetStatusDeployed},
		{domain.AssetStatusProcurement, domain.AssetStatusRetired},
		{domain.AssetStatusDeployed, domain.AssetStatusRetired},
		{domain.AssetStatusDeployed, domain.AssetStatusReserved},
		{domain.AssetStatusMaintenance, domain.AssetStatusDeployed},
		{domain.AssetStatusReserved, domain.AssetStatusRetired},
		{domain.AssetStatusRetired, domain.AssetStatusInStock},
		{domain.AssetStatusRetired, domain.AssetStatusProcurement},
	}
	for _, tc := range rejected {
		assert.False(t, IsValidAssetTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCategoryPrefix(t *testing.T) {
	assert.Equal(t, "LAP", categoryPrefix(domain.CategoryLaptop))
	assert.Equal(t, "SRV", categoryPrefix(domain.CategoryServer))
	// Unknown categories shorten to their first three letters.
	assert.Equal(t, "WHI", categoryPrefix(domain.AssetCategory("whiteboard")))
	assert.Equal(t, "TV", categoryPrefix(domain.AssetCategory("tv")))
}
