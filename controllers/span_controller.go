// Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package controllers

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"

	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"google.golang.org/protobuf/proto"

	"github.com/aiqa-platform/evaluation-service/middleware/logger"
	"github.com/aiqa-platform/evaluation-service/models"
	"github.com/aiqa-platform/evaluation-service/otlp"
	"github.com/aiqa-platform/evaluation-service/services"
	"github.com/aiqa-platform/evaluation-service/utils"
)

// maxExportBodyBytes bounds one OTLP export payload
const maxExportBodyBytes = 16 << 20

type SpanController interface {
	IngestSpans(w http.ResponseWriter, r *http.Request)
	SearchSpans(w http.ResponseWriter, r *http.Request)
	GetSpan(w http.ResponseWriter, r *http.Request)
}

type spanController struct {
	ingestion services.IngestionService
}

// NewSpanController creates a new span controller instance
func NewSpanController(ingestion services.IngestionService) SpanController {
	return &spanController{ingestion: ingestion}
}

// IngestSpans handles POST /span for both OTLP/JSON and OTLP/Protobuf bodies
func (c *spanController) IngestSpans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	body := http.MaxBytesReader(w, r.Body, maxExportBodyBytes)
	contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var req *otlp.ExportRequest
	switch contentType {
	case "application/x-protobuf", "application/protobuf":
		raw, err := io.ReadAll(body)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Failed to read request body")
			return
		}
		var pb coltracepb.ExportTraceServiceRequest
		if err := proto.Unmarshal(raw, &pb); err != nil {
			log.Warn("Malformed protobuf export request", "error", err)
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Malformed protobuf payload")
			return
		}
		req = otlp.FromProto(&pb)
	default:
		req = &otlp.ExportRequest{}
		if err := json.NewDecoder(body).Decode(req); err != nil {
			log.Warn("Malformed JSON export request", "error", err)
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Malformed JSON payload")
			return
		}
	}

	if err := c.ingestion.Ingest(ctx, req); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{})
}

// SearchSpans handles GET /span?q=&limit=&offset=
func (c *spanController) SearchSpans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := requireOrg(w, r); !ok {
		return
	}
	limit, offset := pagination(r, 100)

	spans, total, err := c.ingestion.SearchSpans(ctx, r.URL.Query().Get("q"), limit, offset)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, models.ListResponse[*models.Span]{
		Items:  spans,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// GetSpan handles GET /span/{id}
func (c *spanController) GetSpan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := requireOrg(w, r); !ok {
		return
	}
	span, err := c.ingestion.GetSpan(ctx, r.PathValue("id"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, span)
}
