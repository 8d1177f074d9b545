package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

const authEventsCollection = "auth_events"

// auditDocument is the stored shape of an auth event.
type auditDocument struct {
	Type       string    `bson:"type"`
	UserID     string    `bson:"user_id,omitempty"`
	Username   string    `bson:"username,omitempty"`
	IP         string    `bson:"ip,omitempty"`
	UserAgent  string    `bson:"user_agent,omitempty"`
	Detail     string    `bson:"detail,omitempty"`
	Timestamp  time.Time `bson:"timestamp"`
	RecordedAt time.Time `bson:"recorded_at"`
}

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(authEventsCollection)}
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

// InsertEvent appends an auth event to the audit trail.
func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.AuthEvent) error {
	_, err := r.col.InsertOne(ctx, toAuditDocument(event, time.Now().UTC()))
	return err
}

// EnsureIndexes creates the indexes used to look events up per user and type.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("user_id_timestamp"),
		},
		{Keys: bson.D{{Key: "type", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func toAuditDocument(e *domain.AuthEvent, now time.Time) auditDocument {
	return auditDocument{
		Type:       string(e.Type),
		UserID:     e.UserID,
		Username:   e.Username,
		IP:         e.IP,
		UserAgent:  e.UserAgent,
		Detail:     e.Detail,
		Timestamp:  e.Timestamp.UTC(),
		RecordedAt: now,
	}
}
