package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// Action values discriminating the mutating form submissions.
const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// ShopPage serves the inventory page. Without parameters it lists every
// record with an empty form. `search` restricts the listing, `edit`
// pre-fills the form with the targeted record and answers 404 when the
// record is gone.
func (api *APIHandler) ShopPage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	query := r.URL.Query()
	search := strings.TrimSpace(query.Get("search"))

	var selected *Book
	var form BookSubmission
	if editRaw := query.Get("edit"); editRaw != "" {
		id, err := ParseBookID(editRaw)
		if err != nil {
			api.logger.Error("edit id provided is not valid", zap.String("book.id", editRaw), zap.String("request.id", requestID))
			api.NotFoundPage(w, r, "No book matches the requested identifier.")
			return
		}
		book, err := api.bookService.GetOne(r.Context(), id)
		if err == ErrBookNotFound {
			api.logger.Error("book to edit does not exist", zap.Int64("book.id", id), zap.String("request.id", requestID))
			api.NotFoundPage(w, r, "No book matches the requested identifier.")
			return
		}
		if err != nil {
			api.logger.Error("failed to fetch book to edit", zap.Int64("book.id", id), zap.String("request.id", requestID), zap.Error(err))
			api.ServerErrorPage(w, r)
			return
		}
		selected = &book
		form = SubmissionFromBook(book)
	}

	books, err := api.bookService.GetAll(r.Context(), search)
	if err != nil {
		api.logger.Error("failed to list books", zap.String("request.id", requestID), zap.Error(err))
		api.ServerErrorPage(w, r)
		return
	}

	flash := PopFlashCookie(w, r)
	data := &ShopPageData{
		Books:    books,
		Form:     form,
		Selected: selected,
		Search:   search,
		Flash:    flash,
	}
	if err := api.render.ShopPage(w, http.StatusOK, data); err != nil {
		api.logger.Error("failed to render shop page", zap.String("request.id", requestID), zap.Error(err))
	}
}

// ShopSubmit dispatches a form submission on its action discriminator.
// Unknown or incomplete submissions fall through to the plain listing.
func (api *APIHandler) ShopSubmit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	if err := r.ParseForm(); err != nil {
		api.logger.Error("failed to parse form submission", zap.String("request.id", requestID), zap.Error(err))
		data := &ErrorPageData{Status: http.StatusBadRequest, Title: "Bad Request", Detail: "The submitted form could not be read."}
		if err := api.render.ErrorPage(w, http.StatusBadRequest, data); err != nil {
			api.logger.Error("failed to render bad request page", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	switch r.PostFormValue("action") {
	case ActionAdd:
		api.addBook(w, r)
	case ActionUpdate:
		api.updateBook(w, r)
	case ActionDelete:
		api.deleteBook(w, r)
	default:
		api.ShopPage(w, r, ps)
	}
}

// addBook validates the submission and creates the record. Success
// redirects to the clean listing, failure re-renders the page with the
// submitted values and the per-field messages.
func (api *APIHandler) addBook(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	sub := BookSubmission{
		Name:    r.PostFormValue("name"),
		Edition: r.PostFormValue("edition"),
		Price:   r.PostFormValue("price"),
	}

	fields, verrs := ValidateBookSubmission(sub)
	if len(verrs) > 0 {
		api.logger.Info("rejected invalid book submission", zap.String("request.id", requestID), zap.String("violations", verrs.Error()))
		api.rerenderWithErrors(w, r, sub, nil, verrs, "Error adding book. Please check the form for errors.")
		return
	}

	book, err := api.bookService.Create(r.Context(), fields)
	if err != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		api.ServerErrorPage(w, r)
		return
	}
	api.logger.Info("success to create book", zap.Int64("book.id", book.ID), zap.String("request.id", requestID))
	SetFlashCookie(w, FlashSuccess, fmt.Sprintf("Book %q added successfully!", book.Name))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// updateBook overwrites all fields of the targeted record. A missing
// book_id falls through to the plain listing, an unknown one is a 404.
func (api *APIHandler) updateBook(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	idRaw := r.PostFormValue("book_id")
	if idRaw == "" {
		api.ShopPage(w, r, nil)
		return
	}
	id, err := ParseBookID(idRaw)
	if err != nil {
		api.logger.Error("book id provided is not valid", zap.String("book.id", idRaw), zap.String("request.id", requestID))
		api.NotFoundPage(w, r, "No book matches the requested identifier.")
		return
	}

	book, err := api.bookService.GetOne(r.Context(), id)
	if err == ErrBookNotFound {
		api.logger.Error("book to update does not exist", zap.Int64("book.id", id), zap.String("request.id", requestID))
		api.NotFoundPage(w, r, "No book matches the requested identifier.")
		return
	}
	if err != nil {
		api.logger.Error("failed to fetch book to update", zap.Int64("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		api.ServerErrorPage(w, r)
		return
	}

	sub := BookSubmission{
		Name:    r.PostFormValue("name"),
		Edition: r.PostFormValue("edition"),
		Price:   r.PostFormValue("price"),
	}
	fields, verrs := ValidateBookSubmission(sub)
	if len(verrs) > 0 {
		api.logger.Info("rejected invalid book submission", zap.Int64("book.id", id), zap.String("request.id", requestID), zap.String("violations", verrs.Error()))
		api.rerenderWithErrors(w, r, sub, &book, verrs, "Error updating book. Please check the form for errors.")
		return
	}

	updated, err := api.bookService.Update(r.Context(), id, fields)
	if err == ErrBookNotFound {
		// deleted by a concurrent request between the lookup and the write
		api.NotFoundPage(w, r, "No book matches the requested identifier.")
		return
	}
	if err != nil {
		api.logger.Error("failed to update book", zap.Int64("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		api.ServerErrorPage(w, r)
		return
	}
	api.logger.Info("success to update book", zap.Int64("book.id", updated.ID), zap.String("request.id", requestID))
	SetFlashCookie(w, FlashSuccess, fmt.Sprintf("Book %q updated successfully!", updated.Name))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// deleteBook removes the targeted record. A missing book_id falls
// through to the plain listing, an unknown one is a 404.
func (api *APIHandler) deleteBook(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	idRaw := r.PostFormValue("book_id")
	if idRaw == "" {
		api.ShopPage(w, r, nil)
		return
	}
	id, err := ParseBookID(idRaw)
	if err != nil {
		api.logger.Error("book id provided is not valid", zap.String("book.id", idRaw), zap.String("request.id", requestID))
		api.NotFoundPage(w, r, "No book matches the requested identifier.")
		return
	}

	book, err := api.bookService.GetOne(r.Context(), id)
	if err == ErrBookNotFound {
		api.logger.Error("book to delete does not exist", zap.Int64("book.id", id), zap.String("request.id", requestID))
		api.NotFoundPage(w, r, "No book matches the requested identifier.")
		return
	}
	if err != nil {
		api.logger.Error("failed to fetch book to delete", zap.Int64("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		api.ServerErrorPage(w, r)
		return
	}

	err = api.bookService.Delete(r.Context(), id)
	if err == ErrBookNotFound {
		api.NotFoundPage(w, r, "No book matches the requested identifier.")
		return
	}
	if err != nil {
		api.logger.Error("failed to delete book", zap.Int64("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		api.ServerErrorPage(w, r)
		return
	}
	api.logger.Info("success to delete book", zap.Int64("book.id", id), zap.String("request.id", requestID))
	SetFlashCookie(w, FlashSuccess, fmt.Sprintf("Book %q deleted successfully!", book.Name))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// rerenderWithErrors shows the page again with the untouched submission,
// the field messages and an error feedback line. The listing itself is
// left as it was since no mutation happened.
func (api *APIHandler) rerenderWithErrors(w http.ResponseWriter, r *http.Request, sub BookSubmission, selected *Book, verrs FieldErrors, feedback string) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	books, err := api.bookService.GetAll(r.Context(), "")
	if err != nil {
		api.logger.Error("failed to list books", zap.String("request.id", requestID), zap.Error(err))
		api.ServerErrorPage(w, r)
		return
	}
	data := &ShopPageData{
		Books:    books,
		Form:     sub,
		Selected: selected,
		Flash:    &Flash{Level: FlashError, Text: feedback},
		Errors:   verrs.ByField(),
	}
	if err := api.render.ShopPage(w, http.StatusOK, data); err != nil {
		api.logger.Error("failed to render shop page", zap.String("request.id", requestID), zap.Error(err))
	}
}
