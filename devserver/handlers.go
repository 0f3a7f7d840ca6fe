package devserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/reactivity-io/reactivity-go/api"
	"github.com/reactivity-io/reactivity-go/errors"
)

func (s *Server) routes() {
	s.engine.GET(s.cfg.DiscoveryPath, s.discoveryDocument)
	s.engine.GET(api.RouteOrganizations, s.loadOrganizations)
	s.engine.GET("/subscribe/:id", s.subscribe)
	s.engine.GET("/load/artifacts/:id/limit/:limit/maxage/:age", s.loadArtifacts(true))
	s.engine.GET("/load/artifacts/:id/limit/:limit/minage/:age", s.loadArtifacts(false))
	s.engine.GET("/health", s.health)
}

func (s *Server) discoveryDocument(c *gin.Context) {
	if s.cfg.FailDiscovery {
		c.String(http.StatusServiceUnavailable, "discovery disabled")
		return
	}
	domains := s.cfg.Domains
	if len(domains) == 0 {
		domains = []string{"http://" + c.Request.Host}
	}
	c.JSON(http.StatusOK, domains)
}

func (s *Server) loadOrganizations(c *gin.Context) {
	c.JSON(http.StatusOK, s.data.organizationEvents())
}

func (s *Server) subscribe(c *gin.Context) {
	c.JSON(http.StatusOK, s.data.subscription(c.Param("id")))
}

// loadArtifacts serves the maxage route when upper is set and the minage
// route otherwise. An unknown view yields a single ERROR event.
func (s *Server) loadArtifacts(upper bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.Param("limit"))
		if err != nil || limit < 0 {
			respondError(c, errors.InvalidInput("limit", "limit must be a non-negative integer"))
			return
		}
		age, err := strconv.ParseInt(c.Param("age"), 10, 64)
		if err != nil {
			respondError(c, errors.InvalidInput("age", "age must be an integer"))
			return
		}

		viewID := c.Param("id")
		if _, ok := s.data.view(viewID); !ok {
			c.JSON(http.StatusOK, []api.Event{
				newEvent(api.EventError, viewID, 0, api.ErrorPayload{ID: viewID, Message: "View " + viewID + " not found."}),
			})
			return
		}

		keep := func(updated int64) bool { return age < 0 || updated <= age }
		if !upper {
			keep = func(updated int64) bool { return updated >= age }
		}
		artifacts := s.data.artifactsOf(viewID, limit, keep)
		events := make([]api.Event, 0, len(artifacts))
		for _, a := range artifacts {
			events = append(events, newEvent(api.EventReadArtifact, a.ID, a.Updated, a))
		}
		c.JSON(http.StatusOK, events)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "reactivity-mock"})
}

func respondError(c *gin.Context, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		c.JSON(appErr.HTTPStatus, appErr.ToResponse())
		return
	}
	c.JSON(http.StatusInternalServerError, errors.Internal(err).ToResponse())
}
