package serve

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tyemirov/botops/internal/execshell"
	"github.com/tyemirov/botops/internal/history"
	"github.com/tyemirov/botops/internal/status"
	"github.com/tyemirov/botops/internal/targets"
)

const (
	dispatcherMissingMessageConstant    = "target dispatcher not configured"
	healthEndpointPathConstant          = "/healthz"
	statusEndpointPathConstant          = "/status"
	historyEndpointPathConstant         = "/history"
	targetEndpointPathConstant          = "/targets/:name"
	targetNameRouteParameterConstant    = "name"
	historyLimitQueryParameterConstant  = "limit"
	defaultHistoryLimitConstant         = 20
	healthStatusValueConstant           = "ok"
	statusResponseFieldConstant         = "status"
	errorResponseFieldConstant          = "error"
	targetResponseFieldConstant         = "target"
	exitCodeResponseFieldConstant       = "exit_code"
	succeededResponseFieldConstant      = "succeeded"
	interactiveTargetMessageConstant    = "interactive targets cannot run over HTTP"
	historyUnavailableMessageConstant   = "run history not configured"
	invalidHistoryLimitMessageConstant  = "limit must be a non-negative integer"
	statusUnavailableMessageConstant    = "status inspector not configured"
	requestHandledMessageConstant       = "http request handled"
	requestMethodLogFieldConstant       = "method"
	requestPathLogFieldConstant         = "path"
	responseStatusLogFieldConstant      = "status"
	requestDurationMsLogFieldConstant   = "duration_ms"
	shutdownGracePeriodDurationConstant = 5 * time.Second
)

// ErrDispatcherNotConfigured indicates the target dispatcher dependency was missing.
var ErrDispatcherNotConfigured = errors.New(dispatcherMissingMessageConstant)

// Server exposes target dispatch, container status, and run history over HTTP.
type Server struct {
	dispatcher    *targets.Dispatcher
	inspector     *status.Inspector
	store         history.Store
	logger        *zap.Logger
	containerName string
	engine        *gin.Engine
}

// NewServer constructs a Server. The inspector and store may be nil when the
// corresponding endpoints are disabled.
func NewServer(dispatcher *targets.Dispatcher, inspector *status.Inspector, store history.Store, logger *zap.Logger, containerName string) (*Server, error) {
	if dispatcher == nil {
		return nil, ErrDispatcherNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	server := &Server{
		dispatcher:    dispatcher,
		inspector:     inspector,
		store:         store,
		logger:        logger,
		containerName: containerName,
		engine:        engine,
	}

	engine.Use(gin.Recovery(), server.requestLogger())
	engine.GET(healthEndpointPathConstant, server.handleHealth)
	engine.GET(statusEndpointPathConstant, server.handleStatus)
	engine.GET(historyEndpointPathConstant, server.handleHistory)
	engine.POST(targetEndpointPathConstant, server.handleTarget)

	return server, nil
}

// Handler exposes the configured HTTP handler.
func (server *Server) Handler() http.Handler {
	return server.engine
}

// Run serves HTTP traffic until the context is cancelled, then shuts down gracefully.
func (server *Server) Run(executionContext context.Context, listenAddress string) error {
	httpServer := &http.Server{Addr: listenAddress, Handler: server.engine}

	serveErrors := make(chan error, 1)
	go func() {
		serveErrors <- httpServer.ListenAndServe()
	}()

	select {
	case <-executionContext.Done():
		shutdownContext, cancelShutdown := context.WithTimeout(context.Background(), shutdownGracePeriodDurationConstant)
		defer cancelShutdown()
		return httpServer.Shutdown(shutdownContext)
	case serveError := <-serveErrors:
		if errors.Is(serveError, http.ErrServerClosed) {
			return nil
		}
		return serveError
	}
}

func (server *Server) handleHealth(requestContext *gin.Context) {
	requestContext.JSON(http.StatusOK, gin.H{statusResponseFieldConstant: healthStatusValueConstant})
}

func (server *Server) handleStatus(requestContext *gin.Context) {
	if server.inspector == nil {
		requestContext.JSON(http.StatusServiceUnavailable, gin.H{errorResponseFieldConstant: statusUnavailableMessageConstant})
		return
	}

	report, inspectError := server.inspector.Inspect(requestContext.Request.Context(), server.containerName)
	if inspectError != nil {
		requestContext.JSON(http.StatusBadGateway, gin.H{errorResponseFieldConstant: inspectError.Error()})
		return
	}
	requestContext.JSON(http.StatusOK, report)
}

func (server *Server) handleHistory(requestContext *gin.Context) {
	if server.store == nil {
		requestContext.JSON(http.StatusServiceUnavailable, gin.H{errorResponseFieldConstant: historyUnavailableMessageConstant})
		return
	}

	listLimit := defaultHistoryLimitConstant
	if rawLimit := requestContext.Query(historyLimitQueryParameterConstant); len(rawLimit) > 0 {
		parsedLimit, parseError := strconv.Atoi(rawLimit)
		if parseError != nil || parsedLimit < 0 {
			requestContext.JSON(http.StatusBadRequest, gin.H{errorResponseFieldConstant: invalidHistoryLimitMessageConstant})
			return
		}
		listLimit = parsedLimit
	}

	records, listError := server.store.List(listLimit)
	if listError != nil {
		requestContext.JSON(http.StatusInternalServerError, gin.H{errorResponseFieldConstant: listError.Error()})
		return
	}
	requestContext.JSON(http.StatusOK, records)
}

func (server *Server) handleTarget(requestContext *gin.Context) {
	targetName := requestContext.Param(targetNameRouteParameterConstant)

	definition, exists := server.dispatcher.Registry().Lookup(targetName)
	if !exists {
		requestContext.JSON(http.StatusNotFound, gin.H{errorResponseFieldConstant: targets.UnknownTargetError{TargetName: targetName}.Error()})
		return
	}
	if definition.Interactive {
		requestContext.JSON(http.StatusUnprocessableEntity, gin.H{errorResponseFieldConstant: interactiveTargetMessageConstant})
		return
	}

	executionResult, dispatchError := server.dispatcher.Dispatch(requestContext.Request.Context(), definition.Name)
	if dispatchError != nil {
		var commandFailed execshell.CommandFailedError
		if errors.As(dispatchError, &commandFailed) {
			requestContext.JSON(http.StatusOK, gin.H{
				targetResponseFieldConstant:    definition.Name,
				exitCodeResponseFieldConstant:  commandFailed.Result.ExitCode,
				succeededResponseFieldConstant: false,
			})
			return
		}
		requestContext.JSON(http.StatusBadGateway, gin.H{errorResponseFieldConstant: dispatchError.Error()})
		return
	}

	requestContext.JSON(http.StatusOK, gin.H{
		targetResponseFieldConstant:    definition.Name,
		exitCodeResponseFieldConstant:  executionResult.ExitCode,
		succeededResponseFieldConstant: true,
	})
}

func (server *Server) requestLogger() gin.HandlerFunc {
	return func(requestContext *gin.Context) {
		startedAt := time.Now()
		requestContext.Next()
		server.logger.Info(requestHandledMessageConstant,
			zap.String(requestMethodLogFieldConstant, requestContext.Request.Method),
			zap.String(requestPathLogFieldConstant, requestContext.Request.URL.Path),
			zap.Int(responseStatusLogFieldConstant, requestContext.Writer.Status()),
			zap.Int64(requestDurationMsLogFieldConstant, time.Since(startedAt).Milliseconds()),
		)
	}
}
