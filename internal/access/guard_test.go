package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shop-service/internal/model"
	"shop-service/pkg/apperr"
)

var allRoles = []model.Role{model.RoleAdmin, model.RoleManager, model.RoleUser}

func TestRequireRoleTruthTable(t *testing.T) {
	for _, guardRole := range allRoles {
		for _, principalRole := range allRoles {
			err := RequireRole(&Principal{UserID: 1, Role: principalRole}, guardRole)
			if guardRole == principalRole {
				assert.NoError(t, err, "guard %s principal %s", guardRole, principalRole)
			} else {
				assert.Equal(t, apperr.EForbidden, apperr.ErrorCode(err), "guard %s principal %s", guardRole, principalRole)
			}
		}
	}
}

func TestRequireAnyRoleTruthTable(t *testing.T) {
	allowed := []model.Role{model.RoleAdmin, model.RoleManager}
	for _, r := range allRoles {
		err := RequireAnyRole(&Principal{Role: r}, allowed...)
		if r == model.RoleUser {
			assert.Equal(t, apperr.EForbidden, apperr.ErrorCode(err))
		} else {
			assert.NoError(t, err)
		}
	}
}

func TestRoleGuardsNeverReportUnauthorized(t *testing.T) {
	assert.Equal(t, apperr.EForbidden, apperr.ErrorCode(RequireRole(nil, model.RoleAdmin)))
	assert.Equal(t, apperr.EForbidden, apperr.ErrorCode(RequireAnyRole(&Principal{Role: "ROOT"}, model.RoleAdmin)))
}

func TestRequireAuthenticated(t *testing.T) {
	assert.Equal(t, apperr.EUnauthorized, apperr.ErrorCode(RequireAuthenticated(nil)))
	assert.NoError(t, RequireAuthenticated(&Principal{UserID: 3, Role: model.RoleUser}))
}

func TestEvaluateShortCircuits(t *testing.T) {
	calls := 0
	counting := func(*Principal) error {
		calls++
		return nil
	}

	err := Evaluate(nil, Authenticated(), counting)
	assert.Equal(t, apperr.EUnauthorized, apperr.ErrorCode(err))
	assert.Equal(t, 0, calls)

	err = Evaluate(&Principal{Role: model.RoleUser}, Authenticated(), AnyRole(model.RoleAdmin), counting)
	assert.Equal(t, apperr.EForbidden, apperr.ErrorCode(err))
	assert.Equal(t, 0, calls)

	err = Evaluate(&Principal{Role: model.RoleManager}, Authenticated(), AnyRole(model.RoleAdmin, model.RoleManager), counting)
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}
