package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wardeiling/FreeWise/internal/review"
)

// ReviewController drives review sessions over the wire: starting one,
// inspecting its state and applying user decisions to the current highlight.
type ReviewController struct {
	manager  *review.Manager
	ledger   SessionLedgerReader
	settings SettingsStore
}

func NewReviewController(manager *review.Manager, ledger SessionLedgerReader, settings SettingsStore) *ReviewController {
	return &ReviewController{manager: manager, ledger: ledger, settings: settings}
}

// StartSessionRequest optionally overrides the configured batch size.
type StartSessionRequest struct {
	BatchSize int `json:"batch_size"`
}

// StartSession handles POST /api/review/sessions. An empty eligible pool is
// a legitimate state: the session resolves immediately and the response says
// so through state and an empty batch, not an error.
func (rc *ReviewController) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "invalid request body: "+err.Error())
			return
		}
	}

	batchSize := req.BatchSize
	if batchSize < 0 {
		respondBadRequest(c, "batch_size must be positive")
		return
	}
	if batchSize == 0 {
		batchSize = rc.settings.GetReviewBatchSize()
	}

	session, err := rc.manager.Start(batchSize)
	if err != nil {
		respondInternalError(c, err, "start review session")
		return
	}

	snap := session.Snapshot()
	respondCreated(c, gin.H{
		"session":    snap,
		"empty_pool": snap.State == review.StateResolved,
	})
}

// GetSession handles GET /api/review/sessions/:uuid. Falls back to the
// persisted ledger row for sessions no longer live in memory.
func (rc *ReviewController) GetSession(c *gin.Context) {
	id := c.Param("uuid")

	session, err := rc.manager.Get(id)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"session": session.Snapshot()})
		return
	}
	if !errors.Is(err, review.ErrSessionNotFound) {
		respondInternalError(c, err, "get review session")
		return
	}

	row, ledgerErr := rc.ledger.GetSessionByUUID(id)
	if ledgerErr != nil {
		respondNotFound(c, "review session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ledger": row})
}

// SessionActionRequest names the user decision on the current highlight.
type SessionActionRequest struct {
	Action string `json:"action" binding:"required"`
}

// ApplyAction handles POST /api/review/sessions/:uuid/actions with
// {action: done|discard|favorite}.
func (rc *ReviewController) ApplyAction(c *gin.Context) {
	session, err := rc.manager.Get(c.Param("uuid"))
	if errors.Is(err, review.ErrSessionNotFound) {
		respondNotFound(c, "review session")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get review session")
		return
	}

	var req SessionActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	action, err := review.ParseAction(req.Action)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	err = session.Apply(action)
	switch {
	case errors.Is(err, review.ErrSessionResolved):
		respondConflict(c, "session already resolved")
	case errors.Is(err, review.ErrInvalidTransition):
		respondConflict(c, err.Error())
	case errors.Is(err, review.ErrStateConflict):
		respondConflict(c, err.Error())
	case err != nil:
		respondInternalError(c, err, "apply review action")
	default:
		c.JSON(http.StatusOK, gin.H{"session": session.Snapshot()})
	}
}

// ListSessions handles GET /api/review/sessions — the persisted ledger,
// newest first.
func (rc *ReviewController) ListSessions(c *gin.Context) {
	sessions, err := rc.ledger.ListSessions(parseQueryInt(c, "limit", 20))
	if err != nil {
		respondInternalError(c, err, "list review sessions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}
