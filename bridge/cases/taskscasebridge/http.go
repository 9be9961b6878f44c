package taskscasebridge

import (
	"context"
	"errors"
	"net/http"

	"github.com/jrazmi/taskwire/bridge/scaffolding/errs"
	"github.com/jrazmi/taskwire/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/taskwire/bridge/scaffolding/mid"
	"github.com/jrazmi/taskwire/core/cases/taskscase"
	"github.com/jrazmi/taskwire/infrastructure/web"
)

func (b *bridge) httpList(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	tasks, err := b.tasks.List(ctx, userID)
	if err != nil {
		return toError(err)
	}

	return web.NewJSONResponse(MarshalListToBridge(tasks))
}

func (b *bridge) httpCreate(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	// An empty body is judged by the case so it gets the missing-fields message.
	var input CreateTaskInput
	if err := web.Decode(r, &input); err != nil && !errors.Is(err, web.ErrEmptyBody) {
		return errs.Newf(errs.InvalidArgument, "Invalid request body")
	}

	task, err := b.tasks.Create(ctx, userID, MarshalCreateToCase(input))
	if err != nil {
		return toError(err)
	}

	return web.NewJSONResponseWithStatus(MarshalToBridge(task), http.StatusCreated)
}

func (b *bridge) httpUpdate(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	// An empty body is an empty patch; the case still answers 404 and 401 first.
	var input UpdateTaskInput
	if err := web.Decode(r, &input); err != nil && !errors.Is(err, web.ErrEmptyBody) {
		var fe *FieldError
		if errors.As(err, &fe) {
			return errs.Newf(errs.InvalidArgument, "%s", fe.Error())
		}
		return errs.Newf(errs.InvalidArgument, "Invalid request body")
	}

	task, err := b.tasks.Update(ctx, userID, web.Param(r, "task_id"), input.Patch)
	if err != nil {
		return toError(err)
	}

	return web.NewJSONResponse(MarshalToBridge(task))
}

func (b *bridge) httpDelete(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	id, err := b.tasks.Delete(ctx, userID, web.Param(r, "task_id"))
	if err != nil {
		return toError(err)
	}

	return fopbridge.NewRecordID(id)
}

// toError maps case errors onto transport codes. Anything unrecognized is
// logged in full and answered with a generic 500.
func toError(err error) *errs.Error {
	msg := taskscase.Message(err)

	switch {
	case errors.Is(err, taskscase.ErrValidation):
		return errs.Newf(errs.InvalidArgument, "%s", msg)
	case errors.Is(err, taskscase.ErrNotFound):
		return errs.Newf(errs.NotFound, "%s", msg)
	case errors.Is(err, taskscase.ErrForbidden):
		return errs.Newf(errs.PermissionDenied, "%s", msg)
	default:
		return errs.New(errs.InternalOnlyLog, err)
	}
}
