package tenant_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yespstudio/storefront/pkg/tenant"
)

func TestDatabaseName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		tenantID string
		want     string
	}{
		{name: "uppercase id is lowercased", tenantID: "ABC123", want: "tenant_abc123"},
		{name: "lowercase id is unchanged", tenantID: "abc123", want: "tenant_abc123"},
		{name: "mixed case converges", tenantID: "TeNaNt-1", want: "tenant_tenant-1"},
		{name: "surrounding whitespace is trimmed", tenantID: "  TENANT-1  ", want: "tenant_tenant-1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tenant.DatabaseName(tt.tenantID))
		})
	}
}

func TestDatabaseName_Deterministic(t *testing.T) {
	t.Parallel()

	first := tenant.DatabaseName("TENANT-1")
	for n := 0; n < 5; n++ {
		assert.Equal(t, first, tenant.DatabaseName("TENANT-1"))
		assert.Equal(t, first, tenant.DatabaseName("tenant-1"))
	}
}
