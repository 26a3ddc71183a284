// Package postgresql wraps the bun client with the request-scoped helpers the
// repositories share: claims lookup, struct validation, soft deletes and
// context-carried transactions.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"sitetrack/backend/foundation/web"
	"sitetrack/backend/internal/auth"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

type Database struct {
	*bun.DB
}

func NewDatabase(username, password, host, port, dbName string, disableTLS bool) *Database {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s", username, password, host, port, dbName)

	options := []pgdriver.Option{pgdriver.WithDSN(dsn)}
	if disableTLS {
		options = append(options, pgdriver.WithInsecure(true))
	}

	sqlDB := sql.OpenDB(pgdriver.NewConnector(options...))
	db := bun.NewDB(sqlDB, pgdialect.New())
	db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(false)))

	return &Database{DB: db}
}

// CheckClaims pulls the auth claims from the context and, when roles are
// given, requires one of them.
func (d *Database) CheckClaims(ctx context.Context, roles ...string) (auth.Claims, error) {
	claims, ok := ctx.Value(auth.Key).(auth.Claims)
	if !ok {
		return auth.Claims{}, web.NewRequestError(errors.New("claims missing from context"), http.StatusUnauthorized)
	}

	if len(roles) > 0 && !claims.Authorized(roles...) {
		return auth.Claims{}, web.NewRequestError(errors.New("attempted action is not allowed"), http.StatusUnauthorized)
	}

	return claims, nil
}

// ValidateStruct checks that the named fields of the struct are set.
func (d *Database) ValidateStruct(s interface{}, requiredFields ...string) error {
	v := reflect.ValueOf(s).Elem()

	fields := map[string]string{}
	for _, name := range requiredFields {
		f := v.FieldByName(name)
		if !f.IsValid() || f.IsZero() {
			fields[name] = "required field"
		}
	}

	if len(fields) > 0 {
		return &web.Error{
			Err:    errors.New("required fields are missing"),
			Status: http.StatusBadRequest,
			Fields: fields,
		}
	}

	return nil
}

// DeleteRow soft deletes a row by id, stamping the acting user.
func (d *Database) DeleteRow(ctx context.Context, table string, id int) error {
	claims, err := d.CheckClaims(ctx)
	if err != nil {
		return err
	}

	q := d.IDB(ctx).NewUpdate().Table(table).Where("deleted_at IS NULL AND id = ?", id)
	q = q.Set("deleted_at = ?", time.Now())
	q = q.Set("deleted_by = ?", claims.UserId)

	res, err := q.Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrapf(err, "deleting from %s", table), http.StatusInternalServerError)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "rows affected"), http.StatusInternalServerError)
	}
	if rows == 0 {
		return web.NewRequestError(errors.New("row not found"), http.StatusNotFound)
	}

	return nil
}

type txKey struct{}

// RunInTx executes fn inside a transaction. The transaction handle rides the
// context so nested repository calls join it through IDB.
func (d *Database) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(bun.Tx); ok {
		// Already inside a transaction, join it.
		return fn(ctx)
	}

	return d.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// IDB returns the context transaction if one is open, else the root database.
func (d *Database) IDB(ctx context.Context) bun.IDB {
	if tx, ok := ctx.Value(txKey{}).(bun.Tx); ok {
		return tx
	}
	return d.DB
}
