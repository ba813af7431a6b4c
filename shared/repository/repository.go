package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"time"
	"todoapp/infras/metrics"
	"todoapp/infras/otel"
	"todoapp/infras/postgres"
	"todoapp/shared/constant"
	"todoapp/shared/dto"
	"todoapp/shared/failure"
	"todoapp/shared/logger"

	"github.com/jmoiron/sqlx"
)

var (
	errRequiredFilter = errors.New("required filter")
	errEmptyUpdate    = errors.New("no fields to update")
)

type execer interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

// Ordering is a trusted ORDER BY expression. Callers build it from a whitelist, never from raw input.
type Ordering struct {
	Expression string
	Direction  string
}

// Repository implements named-query CRUD for the struct T, mapping columns from its db tags.
// Fields tagged readonly:"true" are selected and returned but never inserted.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	metrics       metrics.Metrics
	table         string
	entitas       string
	primaryColumn string
	columns       []string
	timeout       time.Duration
	InsertColumns []string
}

func NewRepository[T any](entitasName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel, mtr metrics.Metrics, timeout time.Duration) Repository[T] {
	var zero T

	reflectType := reflect.TypeOf(zero)
	columns, insertColumns := getColumns(tableName, reflectType)

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		metrics:       mtr,
		table:         tableName,
		entitas:       entitasName,
		primaryColumn: primaryColumn,
		columns:       columns,
		timeout:       timeout,
		InsertColumns: insertColumns,
	}
}

func (repo *Repository[T]) spanName(op string) string {
	return fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entitas, op)
}

func (repo *Repository[T]) observe(op string, start time.Time) {
	repo.metrics.ObserveQuery(repo.entitas+"."+op, time.Since(start))
}

func (repo *Repository[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if repo.timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, repo.timeout)
}

func (repo *Repository[T]) fail(scope otel.Scope, err error, action string) error {
	err = ClassifyError(err, repo.entitas, action)

	if failure.GetCode(err) >= 500 {
		logger.ErrorWithStack(err)
		scope.TraceError(err)
	}

	return err
}

// queryRow runs a named statement expected to return at most one row and scans it into a T.
func (repo *Repository[T]) queryRow(ctx context.Context, exec execer, query string, args any) (T, error) {
	var model T

	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	prepare, err := exec.PrepareNamedContext(ctx, query)
	if err != nil {
		return model, err
	}
	defer prepare.Close()

	err = prepare.GetContext(ctx, &model, args)

	return model, err
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) (T, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("Insert"))
	defer scope.End()
	defer repo.observe("insert", time.Now())

	placeholders := []string{}

	for _, col := range repo.InsertColumns {
		placeholders = append(placeholders, ":"+col)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		repo.table, strings.Join(repo.InsertColumns, ", "), strings.Join(placeholders, ", "), repo.getSelectQuery())
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	inserted, err := repo.queryRow(ctx, repo.db.Write, query, model)
	if err != nil {
		return inserted, repo.fail(scope, err, "insert data")
	}

	return inserted, nil
}

func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup) (T, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("Get"))
	defer scope.End()
	defer repo.observe("get", time.Now())

	var model T

	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return model, errRequiredFilter
	}

	query := fmt.Sprintf("SELECT %s FROM %s %s", repo.getSelectQuery(), repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	model, err := repo.queryRow(ctx, repo.db.Read, query, args)
	if errors.Is(err, sql.ErrNoRows) {
		return model, failure.NotFound(repo.entitas + " not found")
	}

	if err != nil {
		return model, repo.fail(scope, err, "get data")
	}

	return model, nil
}

// GetAll returns one page of rows matching filter. Rows are ordered by ordering and then by the
// primary column in the same direction, so pages never overlap.
func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, ordering Ordering) ([]T, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("GetAll"))
	defer scope.End()
	defer repo.observe("list", time.Now())

	where, args := repo.BuildWhereClause(filter)

	var orderBy, pagination string

	if params.PageSize > 0 {
		args["limit"] = params.PageSize
		args["offset"] = params.Offset()

		pagination = "LIMIT :limit OFFSET :offset"
	}

	direction := strings.ToUpper(ordering.Direction)
	if direction != "ASC" {
		direction = "DESC"
	}

	if ordering.Expression != "" {
		orderBy = fmt.Sprintf("ORDER BY %s %s, %s.%s %s", ordering.Expression, direction, repo.table, repo.primaryColumn, direction)
	} else {
		orderBy = fmt.Sprintf("ORDER BY %s.%s %s", repo.table, repo.primaryColumn, direction)
	}

	query := fmt.Sprintf("SELECT %s FROM %s %s %s %s", repo.getSelectQuery(), repo.table, where, orderBy, pagination)

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	models := []T{}

	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		return models, repo.fail(scope, err, "prepare statement")
	}
	defer prepare.Close()

	err = prepare.SelectContext(ctx, &models, args)
	if err != nil {
		return []T{}, repo.fail(scope, err, "get all data")
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("Count"))
	defer scope.End()
	defer repo.observe("count", time.Now())

	where, args := repo.BuildWhereClause(filter)

	query := fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s %s", repo.table, repo.primaryColumn, repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var count int

	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		return 0, repo.fail(scope, err, "prepare statement")
	}
	defer prepare.Close()

	err = prepare.GetContext(ctx, &count, args)
	if err != nil {
		return 0, repo.fail(scope, err, "count data")
	}

	return count, nil
}

// Delete removes the rows matching filter. It reports NotFound when nothing was deleted.
func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("Delete"))
	defer scope.End()
	defer repo.observe("delete", time.Now())

	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	query := fmt.Sprintf("DELETE FROM %s %s", repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	result, err := repo.db.Write.NamedExecContext(ctx, query, args)
	if err != nil {
		return repo.fail(scope, err, "delete data")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return repo.fail(scope, err, "delete data")
	}

	if affected == 0 {
		return failure.NotFound(repo.entitas + " not found")
	}

	return nil
}

func (repo *Repository[T]) update(ctx context.Context, scope otel.Scope, sets []string, args map[string]any, filter dto.FilterGroup) (T, error) {
	var model T

	if len(sets) == 0 {
		return model, errEmptyUpdate
	}

	where, whereArgs := repo.BuildWhereClause(filter)
	if where == "" {
		return model, errRequiredFilter
	}

	query := fmt.Sprintf("UPDATE %s SET %s %s RETURNING %s", repo.table, strings.Join(sets, ", "), where, repo.getSelectQuery())

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)
	maps.Copy(args, whereArgs)

	model, err := repo.queryRow(ctx, repo.db.Write, query, args)
	if errors.Is(err, sql.ErrNoRows) {
		return model, failure.NotFound(repo.entitas + " not found")
	}

	if err != nil {
		return model, repo.fail(scope, err, "update data")
	}

	return model, nil
}

// Update sets the given columns on the rows matching filter and returns the updated row.
// Column values are bound as named parameters prefixed with "set_".
func (repo *Repository[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) (T, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("Update"))
	defer scope.End()
	defer repo.observe("update", time.Now())

	sets := []string{}
	args := map[string]any{}

	for _, col := range slices.Sorted(maps.Keys(mod)) {
		sets = append(sets, fmt.Sprintf("%s = :set_%s", col, col))
		args["set_"+col] = mod[col]
	}

	return repo.update(ctx, scope, sets, args, filter)
}

// UpdateExpr sets columns to trusted SQL expressions evaluated by the database, which makes
// read-modify-write updates such as "NOT is_completed" atomic.
func (repo *Repository[T]) UpdateExpr(ctx context.Context, expressions map[string]string, filter dto.FilterGroup) (T, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("UpdateExpr"))
	defer scope.End()
	defer repo.observe("update", time.Now())

	sets := []string{}

	for _, col := range slices.Sorted(maps.Keys(expressions)) {
		sets = append(sets, fmt.Sprintf("%s = %s", col, expressions[col]))
	}

	return repo.update(ctx, scope, sets, map[string]any{}, filter)
}

func (repo *Repository[T]) getSelectQuery() string {
	return strings.Join(repo.columns, ", ")
}

func (repo *Repository[T]) BuildWhereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()

	if where == "" {
		return where, map[string]any{}
	}

	return fmt.Sprintf(" WHERE %s ", where), args
}

// getColumns returns the table-qualified select columns of reflectType and the subset that is
// inserted. Embedded structs contribute their columns in place.
func getColumns(table string, reflectType reflect.Type) (columns, insertColumns []string) {
	for i := range reflectType.NumField() {
		field := reflectType.Field(i)
		dbTag := field.Tag.Get("db")
		readonly := field.Tag.Get("readonly") == "true"

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			col, insertCol := getColumns(table, field.Type)
			columns = append(columns, col...)
			insertColumns = append(insertColumns, insertCol...)
		}

		if dbTag == "" || dbTag == "-" {
			continue
		}

		if !readonly {
			insertColumns = append(insertColumns, dbTag)
		}

		columns = append(columns, table+"."+dbTag)
	}

	return columns, insertColumns
}
