package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bnb-chain/da-syncer/service"
)

func HandleGetBatch(svc service.Batch) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		batch, err := svc.GetBatch(mux.Vars(r)["hash"])
		writeResponse(w, batch, err)
	}
}

func HandleGetBatchesByBlock(svc service.Batch) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blockNumber, err := strconv.ParseUint(mux.Vars(r)["number"], 10, 64)
		if err != nil {
			writeResponse(w, nil, service.BadRequestErr.Enrich(err.Error()))
			return
		}
		batches, err := svc.GetBatchesByBlock(blockNumber)
		writeResponse(w, batches, err)
	}
}

func HandleGetLatestBlock(svc service.Batch) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		block, err := svc.GetLatestProcessedBlock()
		writeResponse(w, block, err)
	}
}
