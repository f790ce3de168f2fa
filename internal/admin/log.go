package admin

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	"github.com/angelmondragon/storefront-admin/pkg/enums"
	"github.com/angelmondragon/storefront-admin/pkg/metrics"
)

const maxReprLen = 200

// Log appends and reads admin_logentry rows and feeds the admin metrics.
type Log struct {
	db      *gorm.DB
	metrics *metrics.AdminMetrics
}

// NewLog builds a Log bound to db. metrics may be nil.
func NewLog(db *gorm.DB, m *metrics.AdminMetrics) *Log {
	return &Log{db: db, metrics: m}
}

// WithTx returns a Log writing through tx.
func (l *Log) WithTx(tx *gorm.DB) *Log {
	return &Log{db: tx, metrics: l.metrics}
}

// HistoryEntry is the public view of one log row.
type HistoryEntry struct {
	ActionTime    time.Time `json:"action_time"`
	StaffID       *uint     `json:"staff_id,omitempty"`
	Action        string    `json:"action"`
	ObjectRepr    string    `json:"object_repr"`
	ChangeMessage string    `json:"change_message"`
}

// Entry builds a log row for one object.
func Entry(staffID uint, opts Options, objectID uint, repr string, flag enums.ActionFlag, changeMessage string) models.LogEntry {
	entry := models.LogEntry{
		ObjectType:    opts.ObjectType,
		ObjectID:      strconv.FormatUint(uint64(objectID), 10),
		ObjectRepr:    truncate(repr, maxReprLen),
		ActionFlag:    flag,
		ChangeMessage: changeMessage,
	}
	if staffID != 0 {
		id := staffID
		entry.StaffID = &id
	}
	return entry
}

// Record persists entries and counts them per model and flag.
func (l *Log) Record(ctx context.Context, opts Options, entries ...models.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := l.db.WithContext(ctx).Create(&entries).Error; err != nil {
		return err
	}
	for _, entry := range entries {
		l.metrics.IncChange(opts.Model, entry.ActionFlag.String())
	}
	return nil
}

// ObserveAction counts a completed bulk action.
func (l *Log) ObserveAction(opts Options, action string, affected int64) {
	l.metrics.ObserveAction(opts.Model, action, affected)
}

// ActionFailed counts a failed bulk action.
func (l *Log) ActionFailed(opts Options, action string) {
	l.metrics.IncActionFailure(opts.Model, action)
}

// History lists the log rows of one object, oldest first.
func (l *Log) History(ctx context.Context, opts Options, objectID uint) ([]HistoryEntry, error) {
	var rows []models.LogEntry
	err := l.db.WithContext(ctx).
		Where("object_type = ? AND object_id = ?", opts.ObjectType, strconv.FormatUint(uint64(objectID), 10)).
		Order("action_time ASC").
		Order("id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	out := make([]HistoryEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, HistoryEntry{
			ActionTime:    row.ActionTime,
			StaffID:       row.StaffID,
			Action:        row.ActionFlag.String(),
			ObjectRepr:    row.ObjectRepr,
			ChangeMessage: row.ChangeMessage,
		})
	}
	return out, nil
}

type changeMessage struct {
	Added   *relatedObject `json:"added,omitempty"`
	Changed *changedFields `json:"changed,omitempty"`
	Deleted *relatedObject `json:"deleted,omitempty"`
}

type relatedObject struct {
	Name   string `json:"name,omitempty"`
	Object string `json:"object,omitempty"`
}

type changedFields struct {
	Name   string   `json:"name,omitempty"`
	Object string   `json:"object,omitempty"`
	Fields []string `json:"fields"`
}

// ChangeSet collects the parts of a structured change message: the edited
// object's own fields plus the inline rows added, changed or deleted with it.
type ChangeSet struct {
	parts []changeMessage
}

// Added records the addition of the edited object itself.
func (c *ChangeSet) Added() {
	c.parts = append(c.parts, changeMessage{Added: &relatedObject{}})
}

// Changed records edited fields of the object itself. No fields is a no-op.
func (c *ChangeSet) Changed(fields ...string) {
	if len(fields) == 0 {
		return
	}
	c.parts = append(c.parts, changeMessage{Changed: &changedFields{Fields: fields}})
}

// AddedRelated records an inline row created with the object.
func (c *ChangeSet) AddedRelated(name, object string) {
	c.parts = append(c.parts, changeMessage{Added: &relatedObject{Name: name, Object: object}})
}

// ChangedRelated records edited fields of an inline row. No fields is a no-op.
func (c *ChangeSet) ChangedRelated(name, object string, fields ...string) {
	if len(fields) == 0 {
		return
	}
	c.parts = append(c.parts, changeMessage{Changed: &changedFields{Name: name, Object: object, Fields: fields}})
}

// DeletedRelated records an inline row removed with the edit.
func (c *ChangeSet) DeletedRelated(name, object string) {
	c.parts = append(c.parts, changeMessage{Deleted: &relatedObject{Name: name, Object: object}})
}

// Empty reports whether nothing was recorded.
func (c *ChangeSet) Empty() bool {
	return len(c.parts) == 0
}

// String renders the JSON change message, "No fields changed." when empty.
func (c *ChangeSet) String() string {
	if c.Empty() {
		return "No fields changed."
	}
	payload, err := json.Marshal(c.parts)
	if err != nil {
		return ""
	}
	return string(payload)
}

// AddedChange is the change message stored for an addition.
func AddedChange() string {
	var c ChangeSet
	c.Added()
	return c.String()
}

// ChangedFields is the change message listing the fields an edit touched.
// An edit that changed nothing stores "No fields changed.".
func ChangedFields(fields ...string) string {
	var c ChangeSet
	c.Changed(fields...)
	return c.String()
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max])
}
