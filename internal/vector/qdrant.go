// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package vector

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/google/uuid"
	qpb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/tomtom215/screenscout/internal/config"
	"github.com/tomtom215/screenscout/internal/metrics"
)

// payloadIDKey carries the original catalog ID inside the point payload
// so query results can report it instead of the derived UUID.
const payloadIDKey = "id"

// Qdrant talks to a Qdrant collection over gRPC.
type Qdrant struct {
	conn       *grpc.ClientConn
	points     qpb.PointsClient
	collection string
	apiKey     string
	timeout    time.Duration
}

// NewQdrant creates a Qdrant backend for the given collection.
// The connection is established lazily, so a down server surfaces as
// per-call errors rather than a startup failure.
func NewQdrant(cfg *config.QdrantConfig, timeout time.Duration) (*Qdrant, error) {
	creds := insecure.NewCredentials()
	if cfg.UseTLS {
		creds = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	target := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("qdrant client for %s: %w", target, err)
	}

	return &Qdrant{
		conn:       conn,
		points:     qpb.NewPointsClient(conn),
		collection: cfg.Collection,
		apiKey:     cfg.APIKey,
		timeout:    timeout,
	}, nil
}

// Query runs a similarity search against the collection.
func (q *Qdrant) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	ctx, cancel := context.WithTimeout(q.withAuth(ctx), q.timeout)
	defer cancel()

	start := time.Now()
	resp, err := q.points.Search(ctx, &qpb.SearchPoints{
		CollectionName: q.collection,
		Vector:         vector,
		Limit:          uint64(topK),
		WithPayload:    &qpb.WithPayloadSelector{SelectorOptions: &qpb.WithPayloadSelector_Enable{Enable: true}},
	})
	metrics.RecordVectorQuery(q.Provider(), len(resp.GetResult()), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("qdrant search: %w", err)
	}

	matches := make([]Match, len(resp.GetResult()))
	for i, point := range resp.GetResult() {
		matches[i] = Match{
			ID:       externalID(point),
			Score:    float64(point.GetScore()),
			Metadata: payloadToMetadata(point.GetPayload()),
		}
	}

	return matches, nil
}

// Upsert writes vectors to the collection, waiting until they are
// persisted so a subsequent query sees them.
func (q *Qdrant) Upsert(ctx context.Context, items []Item) error {
	if len(items) == 0 {
		return nil
	}

	points := make([]*qpb.PointStruct, len(items))
	for i, item := range items {
		payload := make(map[string]*qpb.Value, len(item.Metadata)+1)
		for k, v := range item.Metadata {
			payload[k] = &qpb.Value{Kind: &qpb.Value_StringValue{StringValue: v}}
		}
		payload[payloadIDKey] = &qpb.Value{Kind: &qpb.Value_StringValue{StringValue: item.ID}}

		points[i] = &qpb.PointStruct{
			Id: &qpb.PointId{PointIdOptions: &qpb.PointId_Uuid{Uuid: pointIDFor(item.ID)}},
			Vectors: &qpb.Vectors{
				VectorsOptions: &qpb.Vectors_Vector{
					Vector: &qpb.Vector{Vector: &qpb.Vector_Dense{Dense: &qpb.DenseVector{Data: item.Vector}}},
				},
			},
			Payload: payload,
		}
	}

	wait := true
	_, err := q.points.Upsert(q.withAuth(ctx), &qpb.UpsertPoints{
		CollectionName: q.collection,
		Points:         points,
		Wait:           &wait,
	})
	metrics.RecordVectorUpsert(q.Provider(), len(items), err)
	if err != nil {
		return fmt.Errorf("qdrant upsert: %w", err)
	}

	return nil
}

// Provider implements Index.
func (q *Qdrant) Provider() string {
	return config.VectorProviderQdrant
}

// Close implements Index.
func (q *Qdrant) Close() error {
	return q.conn.Close()
}

func (q *Qdrant) withAuth(ctx context.Context) context.Context {
	if q.apiKey == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, "api-key", q.apiKey)
}

// pointIDFor derives the stable point UUID for a catalog ID. Qdrant only
// accepts UUID or integer point IDs, so catalog IDs map through UUIDv5;
// re-ingesting a movie then overwrites its point instead of duplicating it.
func pointIDFor(id string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(id)).String()
}

// externalID recovers the catalog ID a point was ingested with. Points
// written by other tools may lack it, so the point UUID is the fallback.
func externalID(point *qpb.ScoredPoint) string {
	if v, ok := point.GetPayload()[payloadIDKey]; ok {
		if s := v.GetStringValue(); s != "" {
			return s
		}
	}
	return point.GetId().GetUuid()
}

// payloadToMetadata flattens string payload fields into match metadata.
// The catalog ID is reported separately and non-string fields are not
// written by the ingest job, so both are dropped here.
func payloadToMetadata(payload map[string]*qpb.Value) map[string]string {
	if len(payload) == 0 {
		return nil
	}
	meta := make(map[string]string, len(payload))
	for k, v := range payload {
		if k == payloadIDKey {
			continue
		}
		if s := v.GetStringValue(); s != "" {
			meta[k] = s
		}
	}
	return meta
}
