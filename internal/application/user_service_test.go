package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/etherescape/config"
	"github.com/oksasatya/etherescape/internal/domain/entity"
	"github.com/oksasatya/etherescape/pkg/helpers"
	"github.com/oksasatya/etherescape/pkg/mailer"
	mailtpl "github.com/oksasatya/etherescape/pkg/mailer/templates"
)

func newUserService(t *testing.T) (*Service, *fakeUsers, *fakePublisher) {
	t.Helper()
	users := newFakeUsers()
	mail := &fakePublisher{}
	jwt := helpers.NewJWTManager("access", "refresh", time.Minute, time.Hour)
	interests := fakeInterests{{ID: "1", Name: "hiking"}, {ID: "2", Name: "music"}}
	svc := NewService(users, interests, jwt, nil, mail, &config.Config{CompanyName: "EtherEscape"}, nil)
	return svc, users, mail
}

func TestSignupStoresHashAndJoinsInterests(t *testing.T) {
	svc, users, mail := newUserService(t)

	u, err := svc.Signup(context.Background(), SignupInput{
		FirstName: "Ada", LastName: "Lovelace", Email: " Ada@Example.com ", Password: "s3cret-pass",
		Interests: []string{"hiking", " music ", ""}, Bio: "walker",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, "Ada Lovelace", u.Name)
	assert.Equal(t, "hiking,music", u.Interests)
	assert.Zero(t, u.Points)
	assert.NotEqual(t, "s3cret-pass", u.Password)
	assert.True(t, helpers.CompareHashAndPassword(u.Password, "s3cret-pass"))

	stored, err := users.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, stored.ID)

	require.Equal(t, 1, mail.count())
	job := mail.jobs[0].(mailer.EmailJob)
	assert.Equal(t, mailtpl.Welcome, job.Template)
	assert.Equal(t, "hiking,music", job.Data["Interests"])
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _, _ := newUserService(t)
	in := SignupInput{Email: "dup@example.com", Password: "password1"}

	_, err := svc.Signup(context.Background(), in)
	require.NoError(t, err)
	_, err = svc.Signup(context.Background(), in)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginAndRefresh(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()
	_, err := svc.Signup(ctx, SignupInput{Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "a@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	u, pair, err := svc.Login(ctx, "A@example.com", "password1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.NotEmpty(t, claims.SessionID)

	rotated, userID, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.NotEmpty(t, rotated.RefreshToken)

	_, _, err = svc.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestProfileAndInterests(t *testing.T) {
	svc, users, _ := newUserService(t)
	ctx := context.Background()

	u := &entity.User{Email: "p@example.com", Name: "P"}
	require.NoError(t, users.Create(ctx, u))

	got, err := svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "P", got.Name)

	_, err = svc.GetProfile(ctx, "user-404")
	assert.ErrorIs(t, err, ErrUserNotFound)

	list, err := svc.ListInterests(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	assert.NoError(t, svc.Logout(ctx, u.ID))
}
