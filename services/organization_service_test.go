// Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aiqa-platform/evaluation-service/models"
	"github.com/aiqa-platform/evaluation-service/repositories"
	"github.com/aiqa-platform/evaluation-service/utils"
)

type fakeOrgRepo struct {
	orgs map[uuid.UUID]*models.Organization
}

func newFakeOrgRepo() *fakeOrgRepo {
	return &fakeOrgRepo{orgs: make(map[uuid.UUID]*models.Organization)}
}

func (f *fakeOrgRepo) WithTx(*gorm.DB) repositories.OrganizationRepository { return f }

func (f *fakeOrgRepo) RunInTransaction(fn func(repositories.OrganizationRepository) error) error {
	return fn(f)
}

func (f *fakeOrgRepo) Create(_ context.Context, org *models.Organization) error {
	f.orgs[org.ID] = org
	return nil
}

func (f *fakeOrgRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Organization, error) {
	org, ok := f.orgs[id]
	if !ok {
		return nil, utils.ErrOrganizationNotFound
	}
	return org, nil
}

func (f *fakeOrgRepo) List(context.Context, string, int, int) ([]models.Organization, int64, error) {
	return nil, 0, nil
}

func (f *fakeOrgRepo) Update(_ context.Context, org *models.Organization) error {
	f.orgs[org.ID] = org
	return nil
}

func (f *fakeOrgRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.orgs[id]; !ok {
		return utils.ErrOrganizationNotFound
	}
	delete(f.orgs, id)
	return nil
}

type fakeAPIKeyRepo struct {
	keys map[uuid.UUID]*models.APIKey
}

func newFakeAPIKeyRepo() *fakeAPIKeyRepo {
	return &fakeAPIKeyRepo{keys: make(map[uuid.UUID]*models.APIKey)}
}

func (f *fakeAPIKeyRepo) WithTx(*gorm.DB) repositories.APIKeyRepository { return f }

func (f *fakeAPIKeyRepo) Create(_ context.Context, key *models.APIKey) error {
	f.keys[key.ID] = key
	return nil
}

func (f *fakeAPIKeyRepo) ListByOrganization(_ context.Context, orgID uuid.UUID) ([]models.APIKey, error) {
	var out []models.APIKey
	for _, k := range f.keys {
		if k.OrganizationID == orgID {
			out = append(out, *k)
		}
	}
	return out, nil
}

func (f *fakeAPIKeyRepo) Delete(_ context.Context, id, orgID uuid.UUID) error {
	k, ok := f.keys[id]
	if !ok || k.OrganizationID != orgID {
		return utils.ErrAPIKeyNotFound
	}
	delete(f.keys, id)
	return nil
}

func (f *fakeAPIKeyRepo) ResolveAPIKeyHash(_ context.Context, keyHash string) (*models.APIKey, *models.Organization, error) {
	for _, k := range f.keys {
		if k.KeyHash == keyHash {
			return k, &models.Organization{ID: k.OrganizationID}, nil
		}
	}
	return nil, nil, utils.ErrAPIKeyNotFound
}

func (f *fakeAPIKeyRepo) ResolveOrganization(context.Context, string) (*models.Organization, error) {
	return nil, utils.ErrOrganizationNotFound
}

func newOrganizationFixture() OrganizationService {
	return NewOrganizationService(newFakeOrgRepo(), newFakeAPIKeyRepo())
}

func TestCreateOrganizationDefaults(t *testing.T) {
	svc := newOrganizationFixture()

	org, err := svc.Create(context.Background(), &models.Organization{Name: "acme"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, org.ID)
	assert.Equal(t, models.TierFree, org.Tier)

	_, err = svc.Create(context.Background(), &models.Organization{})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestCreateAPIKeyValidation(t *testing.T) {
	svc := newOrganizationFixture()
	orgID := uuid.New()
	hash := strings.Repeat("ab", 32)

	key, err := svc.CreateAPIKey(context.Background(), orgID, &CreateAPIKeyRequest{
		KeyHash: hash,
		Last4:   "f00d",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleTrace, key.Role, "role defaults to trace")

	_, err = svc.CreateAPIKey(context.Background(), orgID, &CreateAPIKeyRequest{KeyHash: "short"})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	_, err = svc.CreateAPIKey(context.Background(), orgID, &CreateAPIKeyRequest{
		KeyHash: hash,
		Role:    "superuser",
	})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestAPIKeyLifecycle(t *testing.T) {
	svc := newOrganizationFixture()
	orgID := uuid.New()
	hash := strings.Repeat("cd", 32)

	key, err := svc.CreateAPIKey(context.Background(), orgID, &CreateAPIKeyRequest{
		KeyHash: hash,
		Role:    models.RoleDeveloper,
	})
	require.NoError(t, err)

	keys, err := svc.ListAPIKeys(context.Background(), orgID)
	require.NoError(t, err)
	assert.Len(t, keys, 1)

	require.NoError(t, svc.DeleteAPIKey(context.Background(), orgID, key.ID))
	err = svc.DeleteAPIKey(context.Background(), orgID, key.ID)
	assert.ErrorIs(t, err, utils.ErrAPIKeyNotFound)
}
