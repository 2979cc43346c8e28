package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	accdom "termstore/internal/domain/account"
)

const tokensCollection = "authTokens"

// TokenRepositoryFS implements account.TokenRepository.
//
// Collection design:
// - collection: authTokens
// - docId: the token string (lookups are always by token)
// - TTL: configure Firestore TTL on "expiresAt"
type TokenRepositoryFS struct {
	Client *firestore.Client
}

func NewTokenRepositoryFS(client *firestore.Client) *TokenRepositoryFS {
	return &TokenRepositoryFS{Client: client}
}

func (r *TokenRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection(tokensCollection)
}

func (r *TokenRepositoryFS) Get(ctx context.Context, token string) (accdom.AuthToken, error) {
	if r == nil || r.Client == nil {
		return accdom.AuthToken{}, errors.New("token_repository_fs: firestore client is nil")
	}
	tok := strings.TrimSpace(token)
	if tok == "" {
		return accdom.AuthToken{}, accdom.ErrNotFound
	}

	snap, err := r.col().Doc(tok).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return accdom.AuthToken{}, accdom.ErrNotFound
		}
		return accdom.AuthToken{}, err
	}

	var t accdom.AuthToken
	if err := snap.DataTo(&t); err != nil {
		return accdom.AuthToken{}, err
	}
	t.Token = tok
	return t, nil
}

func (r *TokenRepositoryFS) Put(ctx context.Context, t accdom.AuthToken) error {
	if r == nil || r.Client == nil {
		return errors.New("token_repository_fs: firestore client is nil")
	}
	if strings.TrimSpace(t.Token) == "" {
		return accdom.ErrInvalidToken
	}

	_, err := r.col().Doc(t.Token).Set(ctx, t)
	return err
}

func (r *TokenRepositoryFS) Delete(ctx context.Context, token string) error {
	if r == nil || r.Client == nil {
		return errors.New("token_repository_fs: firestore client is nil")
	}
	tok := strings.TrimSpace(token)
	if tok == "" {
		return nil
	}

	_, err := r.col().Doc(tok).Delete(ctx)
	return err
}
