package restapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/bnb-chain/da-syncer/logging"
	"github.com/bnb-chain/da-syncer/restapi/handlers"
	"github.com/bnb-chain/da-syncer/service"
)

// Server exposes the recorded batches over HTTP.
type Server struct {
	httpAddress string
	svc         service.Batch
	httpServer  *http.Server
}

func NewServer(address string, svc service.Batch) *Server {
	return &Server{
		httpAddress: address,
		svc:         svc,
	}
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(handlers.Logging)
	v1 := router.PathPrefix("/v1").Subrouter()
	v1.Methods(http.MethodGet).Path("/batches/{hash}").HandlerFunc(handlers.HandleGetBatch(s.svc))
	v1.Methods(http.MethodGet).Path("/blocks/latest").HandlerFunc(handlers.HandleGetLatestBlock(s.svc))
	v1.Methods(http.MethodGet).Path("/blocks/{number:[0-9]+}/batches").HandlerFunc(handlers.HandleGetBatchesByBlock(s.svc))
	return router
}

// Run serves the API until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.httpAddress,
		Handler: s.Handler(),
	}
	errCh := make(chan error, 1)
	go func() {
		logging.Logger.Infof("api server listening on %s", s.httpAddress)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
