package repository

import (
	"context"

	"salon-booking/internal/domain/client"
	"salon-booking/internal/infra"
	sqlc "salon-booking/internal/infra/sqlc/generated"
	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/usecase/shared"
)

type ClientWriteQueries interface {
	UpsertClientByEmail(ctx context.Context, db sqlc.DBTX, arg sqlc.UpsertClientByEmailParams) (sqlc.Clients, error)
}

type ClientRepository struct {
	queries ClientWriteQueries
	db      sqlc.DBTX
	cipher  shared.Cipher
}

func NewClientRepository(queries ClientWriteQueries, db sqlc.DBTX, cipher shared.Cipher) *ClientRepository {
	return &ClientRepository{
		queries: queries,
		db:      db,
		cipher:  cipher,
	}
}

func (r *ClientRepository) UpsertByEmail(ctx context.Context, contact client.Contact) (*client.Client, error) {
	phone, err := r.cipher.Encrypt(contact.Phone())
	if err != nil {
		return nil, errs.Wrap(err, "failed to encrypt client phone")
	}

	row, err := r.queries.UpsertClientByEmail(ctx, r.db, sqlc.UpsertClientByEmailParams{
		Name:            contact.Name(),
		Lower:           contact.Email().Value(),
		PhoneCiphertext: phone,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to upsert client", err)
	}

	return &client.Client{
		ID:              row.ID,
		Name:            row.Name,
		Email:           row.Email,
		PhoneCiphertext: row.PhoneCiphertext,
	}, nil
}
