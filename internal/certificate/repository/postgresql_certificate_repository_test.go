package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	credentialRepository "github.com/allisson/credstore/internal/credential/repository"
	"github.com/allisson/credstore/internal/testutil"
)

func TestNewPostgreSQLCertificateRepository(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLCertificateRepository(db)
	assert.NotNil(t, repo)
	assert.IsType(t, &PostgreSQLCertificateRepository{}, repo)
}

func TestPostgreSQLCertificateRepository_GetActive(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLCertificateRepository(db)
	credentials := credentialRepository.NewPostgreSQLCredentialRepository(db)
	ctx := context.Background()

	credential := credentialDomain.NewCredential("/ca/root")
	require.NoError(t, credentials.CreateCredential(ctx, credential))

	older := credentialDomain.NewCredentialVersion(
		credential.ID,
		credentialDomain.CertificateType,
		testutil.CreateTestEncryptedValue(t, db, uuid.Must(uuid.NewV7())),
		credentialDomain.VersionMetadata{IsCA: true, SelfSigned: true, CommonName: "root-ca"},
	)
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := credentialDomain.NewCredentialVersion(
		credential.ID,
		credentialDomain.CertificateType,
		testutil.CreateTestEncryptedValue(t, db, uuid.Must(uuid.NewV7())),
		credentialDomain.VersionMetadata{IsCA: true, SelfSigned: true, CommonName: "root-ca"},
	)
	require.NoError(t, credentials.CreateVersion(ctx, older))
	require.NoError(t, credentials.CreateVersion(ctx, newer))

	t.Run("NewestNonTransitionalWins", func(t *testing.T) {
		active, err := repo.GetActive(ctx, "/ca/root")
		require.NoError(t, err)
		assert.Equal(t, newer.ID, active.ID)
	})

	t.Run("CaseInsensitiveName", func(t *testing.T) {
		active, err := repo.GetActive(ctx, "/CA/ROOT")
		require.NoError(t, err)
		assert.Equal(t, newer.ID, active.ID)
	})

	t.Run("TransitionalVersionsAreSkipped", func(t *testing.T) {
		require.NoError(t, repo.SetTransitional(ctx, newer.ID))
		defer func() { require.NoError(t, repo.ClearTransitional(ctx, credential.ID)) }()

		active, err := repo.GetActive(ctx, "/ca/root")
		require.NoError(t, err)
		assert.Equal(t, older.ID, active.ID)
	})

	t.Run("MissingName", func(t *testing.T) {
		_, err := repo.GetActive(ctx, "/ca/missing")
		assert.ErrorIs(t, err, credentialDomain.ErrVersionNotFound)
	})
}

func TestPostgreSQLCertificateRepository_GetActiveAndTransitional(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLCertificateRepository(db)
	credentials := credentialRepository.NewPostgreSQLCredentialRepository(db)
	ctx := context.Background()

	credential := credentialDomain.NewCredential("/ca/root")
	require.NoError(t, credentials.CreateCredential(ctx, credential))

	replaced := credentialDomain.NewCredentialVersion(
		credential.ID,
		credentialDomain.CertificateType,
		testutil.CreateTestEncryptedValue(t, db, uuid.Must(uuid.NewV7())),
		credentialDomain.VersionMetadata{IsCA: true, SelfSigned: true},
	)
	replaced.CreatedAt = time.Now().UTC().Add(-time.Hour)
	current := credentialDomain.NewCredentialVersion(
		credential.ID,
		credentialDomain.CertificateType,
		testutil.CreateTestEncryptedValue(t, db, uuid.Must(uuid.NewV7())),
		credentialDomain.VersionMetadata{IsCA: true, SelfSigned: true},
	)
	require.NoError(t, credentials.CreateVersion(ctx, replaced))
	require.NoError(t, credentials.CreateVersion(ctx, current))

	t.Run("OnlyActiveWithoutTransitional", func(t *testing.T) {
		versions, err := repo.GetActiveAndTransitional(ctx, "/ca/root")
		require.NoError(t, err)
		require.Len(t, versions, 1)
		assert.Equal(t, current.ID, versions[0].ID)
	})

	t.Run("ActiveFirstThenTransitional", func(t *testing.T) {
		require.NoError(t, repo.SetTransitional(ctx, replaced.ID))

		versions, err := repo.GetActiveAndTransitional(ctx, "/ca/root")
		require.NoError(t, err)
		require.Len(t, versions, 2)
		assert.Equal(t, current.ID, versions[0].ID)
		assert.Equal(t, replaced.ID, versions[1].ID)
		assert.True(t, versions[1].Metadata.Transitional)
	})
}

func TestPostgreSQLCertificateRepository_FindNamesSignedBy(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLCertificateRepository(db)
	credentials := credentialRepository.NewPostgreSQLCredentialRepository(db)
	ctx := context.Background()

	addLeaf := func(name, caName string, versions int) {
		credential := credentialDomain.NewCredential(name)
		require.NoError(t, credentials.CreateCredential(ctx, credential))
		for i := 0; i < versions; i++ {
			version := credentialDomain.NewCredentialVersion(
				credential.ID,
				credentialDomain.CertificateType,
				testutil.CreateTestEncryptedValue(t, db, uuid.Must(uuid.NewV7())),
				credentialDomain.VersionMetadata{CAName: caName},
			)
			require.NoError(t, credentials.CreateVersion(ctx, version))
		}
	}

	addLeaf("/certs/leaf-a", "/ca/root", 2)
	addLeaf("/certs/leaf-b", "/CA/ROOT", 1)
	addLeaf("/certs/leaf-c", "/ca/other", 1)

	names, err := repo.FindNamesSignedBy(ctx, "/ca/root")
	require.NoError(t, err)

	// leaf-a has two versions but shows up once; leaf-b matched despite the
	// case difference; leaf-c belongs to another CA.
	assert.Equal(t, []string{"/certs/leaf-a", "/certs/leaf-b"}, names)
}

func TestPostgreSQLCertificateRepository_TransitionalFlags(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLCertificateRepository(db)
	credentials := credentialRepository.NewPostgreSQLCredentialRepository(db)
	ctx := context.Background()

	credential := credentialDomain.NewCredential("/ca/root")
	require.NoError(t, credentials.CreateCredential(ctx, credential))

	version := credentialDomain.NewCredentialVersion(
		credential.ID,
		credentialDomain.CertificateType,
		testutil.CreateTestEncryptedValue(t, db, uuid.Must(uuid.NewV7())),
		credentialDomain.VersionMetadata{IsCA: true},
	)
	require.NoError(t, credentials.CreateVersion(ctx, version))

	t.Run("SetAndClear", func(t *testing.T) {
		require.NoError(t, repo.SetTransitional(ctx, version.ID))

		read, err := credentials.GetVersionByID(ctx, version.ID)
		require.NoError(t, err)
		assert.True(t, read.Metadata.Transitional)

		require.NoError(t, repo.ClearTransitional(ctx, credential.ID))

		read, err = credentials.GetVersionByID(ctx, version.ID)
		require.NoError(t, err)
		assert.False(t, read.Metadata.Transitional)
	})

	t.Run("SetMissingVersion", func(t *testing.T) {
		err := repo.SetTransitional(ctx, uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, credentialDomain.ErrVersionNotFound)
	})

	t.Run("ClearWithNothingFlaggedIsNoOp", func(t *testing.T) {
		assert.NoError(t, repo.ClearTransitional(ctx, credential.ID))
	})
}
