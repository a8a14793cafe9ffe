package handlers

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"

	"github.com/Joaovenera/wms-sub000/internal/domain"
	"github.com/Joaovenera/wms-sub000/pkg/errors"
	"github.com/Joaovenera/wms-sub000/pkg/logging"
	"github.com/Joaovenera/wms-sub000/pkg/middleware"
)

// mapError translates domain sentinel errors into the API error
// taxonomy. Anything unrecognized falls through to the generic mapper
// so internals never leak a stack trace.
func mapError(err error) *errors.AppError {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}

	switch {
	case stderrors.Is(err, domain.ErrUCPNotFound):
		return errors.ErrNotFound("UCP").Wrap(err)
	case stderrors.Is(err, domain.ErrUCPItemNotFound):
		return errors.ErrNotFound("UCP item").Wrap(err)
	case stderrors.Is(err, domain.ErrPalletNotFound):
		return errors.ErrNotFound("pallet").Wrap(err)
	case stderrors.Is(err, domain.ErrPositionNotFound):
		return errors.ErrNotFound("position").Wrap(err)
	case stderrors.Is(err, domain.ErrProductNotFound):
		return errors.ErrValidation("unknown product in request").Wrap(err).
			WithSuggestions("remove the unresolved product or fix its id")
	case stderrors.Is(err, domain.ErrCompositionNotFound):
		return errors.ErrNotFound("composition").Wrap(err)
	case stderrors.Is(err, domain.ErrPalletUnavailable):
		return errors.NewAppError(errors.CodePalletInUse, "pallet is not available", 409).Wrap(err).
			WithSuggestions("pick another pallet or dismantle the UCP holding it")
	case stderrors.Is(err, domain.ErrPositionUnavailable):
		return errors.NewAppError(errors.CodePositionOccupied, "position is not available", 409).Wrap(err).
			WithSuggestions("pick a free position")
	case stderrors.Is(err, domain.ErrNoAvailablePallet):
		return errors.ErrBusinessRule("no available pallet for auto-selection").Wrap(err).
			WithSuggestions("register or free a pallet, or name one explicitly")
	case stderrors.Is(err, domain.ErrUCPArchived):
		return errors.ErrConflict("UCP is archived").Wrap(err)
	case stderrors.Is(err, domain.ErrUCPItemInactive):
		return errors.ErrConflict("UCP item is no longer active").Wrap(err)
	case stderrors.Is(err, domain.ErrCompositionExecuted):
		return errors.ErrConflict("composition already executed").Wrap(err)
	case stderrors.Is(err, domain.ErrInvalidStatusTransition):
		return errors.ErrConflict("status transition is not allowed").Wrap(err)
	case stderrors.Is(err, domain.ErrInvalidQuantity):
		return errors.ErrValidation("quantity must be positive").Wrap(err)
	case stderrors.Is(err, domain.ErrInsufficientQuantity):
		return errors.ErrInsufficientStock("").Wrap(err)
	default:
		return errors.MapDomainError(err)
	}
}

func respond(c *gin.Context, logger *logging.Logger, err error) {
	middleware.NewErrorResponder(c, logger.Logger).RespondWithAppError(mapError(err))
}
