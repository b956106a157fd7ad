package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/campuslib/circulation-service/circulation/internal/model"

	sq "github.com/Masterminds/squirrel"
)

func (r *repository) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	q, args, err := qb.Insert(booksTableName).
		Columns("book_uid", "name", "author", "genre", "replacement_cost", "total_copies", "available_copies").
		Values(uuid.New(), req.Name, req.Author, req.Genre, req.ReplacementCost, req.TotalCopies, req.TotalCopies).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		r.log.Error("CreateBook", zap.String("q", q), zap.Error(err))
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) GetBook(ctx context.Context, bookUid string) (model.Book, error) {
	q, args, err := qb.Select("id", "book_uid", "name", "author", "genre", "replacement_cost", "total_copies", "available_copies").
		From(booksTableName).
		Where(sq.Eq{"book_uid": bookUid}).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		return model.Book{}, notFoundOr(err)
	}
	return book, nil
}

func (r *repository) ListBooks(ctx context.Context, showAll bool, page, size int) (model.ListBooks, error) {
	q := qb.Select("id", "book_uid", "name", "author", "genre", "replacement_cost", "total_copies", "available_copies").
		From(booksTableName).
		OrderBy("name")

	if !showAll {
		q = q.Where(sq.Gt{"available_copies": 0})
	}
	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}

	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return model.ListBooks{}, err
	}

	return model.ListBooks{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: len(books),
		},
		Items: books,
	}, nil
}

// lockBook loads the book row FOR UPDATE inside an engine transaction.
func lockBook(ctx context.Context, tx *sqlx.Tx, bookUid string) (model.Book, error) {
	var book model.Book
	q := `select id, book_uid, name, author, genre, replacement_cost, total_copies, available_copies
	from books where book_uid = $1 for update`
	if err := tx.GetContext(ctx, &book, q, bookUid); err != nil {
		return model.Book{}, notFoundOr(err)
	}
	return book, nil
}

func lockBookByID(ctx context.Context, tx *sqlx.Tx, id int) (model.Book, error) {
	var book model.Book
	q := `select id, book_uid, name, author, genre, replacement_cost, total_copies, available_copies
	from books where id = $1 for update`
	if err := tx.GetContext(ctx, &book, q, id); err != nil {
		return model.Book{}, notFoundOr(err)
	}
	return book, nil
}
