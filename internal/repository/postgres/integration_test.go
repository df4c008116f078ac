//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/streamtube/streamtube-server/internal/model"
	repo "github.com/streamtube/streamtube-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "streamtube_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/streamtube_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func testUser(suffix string) model.User {
	return model.User{
		ID:           uuid.New(),
		Username:     "user" + suffix,
		Email:        "user" + suffix + "@example.com",
		Title:        "Channel " + suffix,
		FirstName:    "first",
		LastName:     "last",
		AvatarURL:    "http://s/avatar.png",
		PasswordHash: "$2a$04$hash",
	}
}

func TestSequenceRepository_Next(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	sr := repo.NewSequenceRepository(conn)

	first, err := sr.Next(ctx, "seq_first_call")
	require.NoError(t, err)
	require.Equal(t, int64(1), first)

	second, err := sr.Next(ctx, "seq_first_call")
	require.NoError(t, err)
	require.Equal(t, int64(2), second)

	// Distinct counters do not interfere.
	other, err := sr.Next(ctx, "seq_other")
	require.NoError(t, err)
	require.Equal(t, int64(1), other)
}

func TestSequenceRepository_ConcurrentAllocationsAreUnique(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	sr := repo.NewSequenceRepository(conn)

	const workers = 32
	results := make(chan int64, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq, err := sr.Next(ctx, "seq_concurrent")
			require.NoError(t, err)
			results <- seq
		}()
	}
	wg.Wait()
	close(results)

	seen := map[int64]bool{}
	for seq := range results {
		require.False(t, seen[seq], "duplicate sequence value %d", seq)
		seen[seq] = true
	}
	require.Len(t, seen, workers)
}

func TestUserRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	ur := repo.NewUserRepository(conn)
	sr := repo.NewSequenceRepository(conn)

	u := testUser("crud")
	u.UHID, err = sr.Next(ctx, model.UHIDSequence)
	require.NoError(t, err)

	saved, err := ur.Create(ctx, u)
	require.NoError(t, err)
	require.Equal(t, u.ID, saved.ID)
	require.Equal(t, u.UHID, saved.UHID)
	require.Empty(t, saved.RefreshToken)

	byUsername, err := ur.GetByUsername(ctx, u.Username)
	require.NoError(t, err)
	require.Equal(t, u.ID, byUsername.ID)

	byLogin, err := ur.GetByLogin(ctx, u.Email)
	require.NoError(t, err)
	require.Equal(t, u.ID, byLogin.ID)

	_, err = ur.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, model.ErrNotFound)

	// Duplicate identities hit the unique indexes.
	dup := testUser("crud2")
	dup.Username = u.Username
	dup.UHID, err = sr.Next(ctx, model.UHIDSequence)
	require.NoError(t, err)
	_, err = ur.Create(ctx, dup)
	require.ErrorIs(t, err, model.ErrUsernameTaken)

	dup = testUser("crud3")
	dup.Email = u.Email
	dup.UHID, err = sr.Next(ctx, model.UHIDSequence)
	require.NoError(t, err)
	_, err = ur.Create(ctx, dup)
	require.ErrorIs(t, err, model.ErrEmailTaken)
}

func TestUserRepository_RefreshTokenLifecycle(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	ur := repo.NewUserRepository(conn)
	sr := repo.NewSequenceRepository(conn)

	u := testUser("refresh")
	u.UHID, err = sr.Next(ctx, model.UHIDSequence)
	require.NoError(t, err)
	_, err = ur.Create(ctx, u)
	require.NoError(t, err)

	require.NoError(t, ur.SetRefreshToken(ctx, u.ID, "token-one"))
	got, err := ur.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "token-one", got.RefreshToken)

	// A new login overwrites, invalidating the previous session.
	require.NoError(t, ur.SetRefreshToken(ctx, u.ID, "token-two"))
	got, err = ur.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "token-two", got.RefreshToken)

	require.NoError(t, ur.ClearRefreshToken(ctx, u.ID))
	got, err = ur.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, got.RefreshToken)
}

func TestVideoAndSubscriptionRepositories(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	ur := repo.NewUserRepository(conn)
	sr := repo.NewSequenceRepository(conn)
	vr := repo.NewVideoRepository(conn)
	subr := repo.NewSubscriptionRepository(conn)

	owner := testUser("owner")
	owner.UHID, err = sr.Next(ctx, model.UHIDSequence)
	require.NoError(t, err)
	_, err = ur.Create(ctx, owner)
	require.NoError(t, err)

	viewer := testUser("viewer")
	viewer.UHID, err = sr.Next(ctx, model.UHIDSequence)
	require.NoError(t, err)
	_, err = ur.Create(ctx, viewer)
	require.NoError(t, err)

	video := model.Video{
		ID:           uuid.New(),
		OwnerID:      owner.ID,
		Title:        "unique title",
		Description:  "desc",
		VideoURL:     "http://s/v.mp4",
		ThumbnailURL: "http://s/t.png",
		Duration:     "1:00",
	}
	saved, err := vr.Create(ctx, video)
	require.NoError(t, err)
	require.Equal(t, video.ID, saved.ID)

	_, err = vr.Create(ctx, model.Video{
		ID: uuid.New(), OwnerID: owner.ID, Title: "unique title",
		VideoURL: "http://s/v2.mp4", ThumbnailURL: "http://s/t2.png",
	})
	require.ErrorIs(t, err, model.ErrTitleTaken)

	require.NoError(t, subr.Create(ctx, model.Subscription{SubscriberID: viewer.ID, ChannelID: owner.ID}))
	// Subscribing twice is a no-op.
	require.NoError(t, subr.Create(ctx, model.Subscription{SubscriberID: viewer.ID, ChannelID: owner.ID}))

	exists, err := subr.Exists(ctx, viewer.ID, owner.ID)
	require.NoError(t, err)
	require.True(t, exists)

	count, err := subr.CountSubscribers(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	require.NoError(t, subr.Delete(ctx, viewer.ID, owner.ID))
	exists, err = subr.Exists(ctx, viewer.ID, owner.ID)
	require.NoError(t, err)
	require.False(t, exists)
}
