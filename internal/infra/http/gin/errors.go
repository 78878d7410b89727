package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	authsvc "adboard/internal/app/services/auth"
	listingsvc "adboard/internal/app/services/listing"
	reservationsvc "adboard/internal/app/services/reservation"
	domainbilling "adboard/internal/domain/billboard"
	domainbooking "adboard/internal/domain/booking"
	domaincomplaint "adboard/internal/domain/complaint"
	"adboard/internal/domain/shared/daterange"
	"adboard/internal/domain/shared/money"
	domainuser "adboard/internal/domain/user"
)

// respondError maps domain sentinels onto the HTTP taxonomy: 400 for bad
// input and invalid state, 401/403 for identity failures, 404 for missing
// entities, 409 for booking conflicts and duplicate contacts. Anything
// unrecognized becomes an opaque 500.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, authsvc.ErrInvalidCredentials),
		errors.Is(err, authsvc.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": publicMessage(err)})
	case errors.Is(err, reservationsvc.ErrForbidden),
		errors.Is(err, listingsvc.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
	case errors.Is(err, domainbilling.ErrNotFound),
		errors.Is(err, domainbooking.ErrNotFound),
		errors.Is(err, domaincomplaint.ErrNotFound),
		errors.Is(err, domainuser.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": publicMessage(err)})
	case errors.Is(err, domainbooking.ErrOverlap),
		errors.Is(err, domainuser.ErrEmailAlreadyUsed),
		errors.Is(err, domainuser.ErrPhoneAlreadyUsed):
		c.JSON(http.StatusConflict, gin.H{"error": publicMessage(err)})
	case errors.Is(err, domainbilling.ErrNotBookable),
		errors.Is(err, domainbooking.ErrOwnBillboard),
		errors.Is(err, domainbooking.ErrAlreadyProcessed),
		errors.Is(err, domainbooking.ErrNotCancellable),
		errors.Is(err, domainbooking.ErrNotApproved),
		errors.Is(err, domainbooking.ErrDisputeExists),
		errors.Is(err, domainbooking.ErrNoDispute),
		errors.Is(err, domainbooking.ErrStartInPast),
		errors.Is(err, domainbooking.ErrInvalidStatus),
		errors.Is(err, domainbooking.ErrDisputeReason),
		errors.Is(err, domaincomplaint.ErrInvalidStatus),
		errors.Is(err, domaincomplaint.ErrSubjectRequired),
		errors.Is(err, domaincomplaint.ErrBodyRequired),
		errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, money.ErrNegativeAmount),
		errors.Is(err, authsvc.ErrPasswordTooShort),
		errors.Is(err, domainuser.ErrInvalidRole),
		errors.Is(err, domainuser.ErrRoleReserved),
		errors.Is(err, domainuser.ErrEmailRequired),
		errors.Is(err, domainuser.ErrNameRequired),
		errors.Is(err, domainbilling.ErrNameRequired),
		errors.Is(err, domainbilling.ErrLocationRequired),
		errors.Is(err, domainbilling.ErrNegativePrice):
		c.JSON(http.StatusBadRequest, gin.H{"error": publicMessage(err)})
	default:
		if logger != nil {
			logger.Error("request failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func publicMessage(err error) string {
	return err.Error()
}
