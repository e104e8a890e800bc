package ideahandler

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	filestorage "idea-portal-backend/lib/file-storage"
	rejectedideastore "idea-portal-backend/lib/idea/rejected-store"
	"idea-portal-backend/lib/notification"
	connectionhub "idea-portal-backend/lib/ws/hub/connection-hub"
	credentialsapimodels "idea-portal-backend/models/api/credentials"
	ideaapimodels "idea-portal-backend/models/api/idea"
	dbmodels "idea-portal-backend/models/db"
	wsmodels "idea-portal-backend/models/ws"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeIdeaStore struct {
	mu         sync.Mutex
	docs       map[primitive.ObjectID]dbmodels.Idea
	calls      int
	failUpdate error
	failDelete error
}

func newFakeIdeaStore() *fakeIdeaStore {
	return &fakeIdeaStore{docs: map[primitive.ObjectID]dbmodels.Idea{}}
}

func (f *fakeIdeaStore) Create(ctx context.Context, rec dbmodels.Idea) (*dbmodels.Idea, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.docs[rec.ID] = rec
	return &rec, nil
}

func (f *fakeIdeaStore) GetByID(ctx context.Context, id primitive.ObjectID) (*dbmodels.Idea, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	rec, ok := f.docs[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeIdeaStore) List(ctx context.Context, filter ideaapimodels.IdeaFilter) ([]dbmodels.Idea, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	list := []dbmodels.Idea{}
	for _, rec := range f.docs {
		if rec.Relocation != nil {
			continue
		}
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		if filter.ExcludeStatus != "" && rec.Status == filter.ExcludeStatus {
			continue
		}
		if filter.EmployeeID != "" && rec.EmployeeID != filter.EmployeeID {
			continue
		}
		list = append(list, rec)
	}
	return list, nil
}

func (f *fakeIdeaStore) Update(ctx context.Context, id primitive.ObjectID, updMap map[string]interface{}) (*dbmodels.Idea, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failUpdate != nil {
		return nil, f.failUpdate
	}
	rec, ok := f.docs[id]
	if !ok || rec.Relocation != nil {
		return nil, nil
	}
	for key, value := range updMap {
		switch key {
		case "status":
			rec.Status = value.(string)
		case "comment":
			rec.Comment = value.(string)
		case "adminName":
			rec.AdminName = value.(string)
		case "rejectedAt":
			rec.RejectedAt = value.(string)
		case "rejectionReason":
			rec.RejectionReason = value.(string)
		case "recommendedAt":
			rec.RecommendedAt = value.(string)
		case "bookmarkedBy":
			rec.BookmarkedBy = value.([]string)
		case "relocation":
			relocation := value.(dbmodels.IdeaRelocation)
			rec.Relocation = &relocation
		default:
			return nil, errors.Errorf("неизвестное поле %s", key)
		}
	}
	f.docs[id] = rec
	return &rec, nil
}

func (f *fakeIdeaStore) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failDelete != nil {
		return false, f.failDelete
	}
	_, ok := f.docs[id]
	delete(f.docs, id)
	return ok, nil
}

func (f *fakeIdeaStore) ListRelocationPending(ctx context.Context, requestedBefore time.Time) ([]dbmodels.Idea, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := []dbmodels.Idea{}
	for _, rec := range f.docs {
		if rec.Relocation != nil && !rec.Relocation.RequestedAt.After(requestedBefore) {
			list = append(list, rec)
		}
	}
	return list, nil
}

func (f *fakeIdeaStore) get(id primitive.ObjectID) (dbmodels.Idea, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.docs[id]
	return rec, ok
}

type fakeRejectedStore struct {
	mu        sync.Mutex
	docs      map[primitive.ObjectID]dbmodels.RejectedIdea
	inserts   int
	missOnGet bool
}

func newFakeRejectedStore() *fakeRejectedStore {
	return &fakeRejectedStore{docs: map[primitive.ObjectID]dbmodels.RejectedIdea{}}
}

func (f *fakeRejectedStore) Create(ctx context.Context, rec dbmodels.RejectedIdea) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if _, ok := f.docs[rec.ID]; ok {
		return rejectedideastore.ErrAlreadyArchived
	}
	f.docs[rec.ID] = rec
	return nil
}

func (f *fakeRejectedStore) GetByID(ctx context.Context, id primitive.ObjectID) (*dbmodels.RejectedIdea, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.docs[id]
	if !ok || f.missOnGet {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeRejectedStore) List(ctx context.Context, filter ideaapimodels.IdeaFilter) ([]dbmodels.RejectedIdea, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := []dbmodels.RejectedIdea{}
	for _, rec := range f.docs {
		if filter.EmployeeID != "" && rec.EmployeeID != filter.EmployeeID {
			continue
		}
		list = append(list, rec)
	}
	return list, nil
}

type fakeCredentials struct {
	admins map[string]string // corporateID -> name
	emails map[string]string // corporateID -> email
	err    error
}

func (f fakeCredentials) UserDetails(corporateID string) (*credentialsapimodels.UserDetails, error) {
	return nil, errors.New("не используется")
}

func (f fakeCredentials) AdminRole(corporateID string) (*credentialsapimodels.AdminRole, error) {
	return nil, errors.New("не используется")
}

func (f fakeCredentials) AdminName(corporateID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.admins[corporateID], nil
}

func (f fakeCredentials) EmployeeEmail(corporateID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.emails[corporateID], nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	jobs []notification.Job
}

func (f *fakeNotifier) Send(msg notification.Message) {
	f.Dispatch(notification.Job{Name: "mail", Build: func(ctx context.Context) (*notification.Message, error) {
		return &msg, nil
	}})
}

func (f *fakeNotifier) Dispatch(job notification.Job) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
}

func (f *fakeNotifier) Start(ctx context.Context) {}

func (f *fakeNotifier) Done() <-chan struct{} {
	return nil
}

// build собирает письма так, как это сделал бы обработчик очереди
func (f *fakeNotifier) build() ([]*notification.Message, error) {
	f.mu.Lock()
	jobs := append([]notification.Job{}, f.jobs...)
	f.mu.Unlock()
	result := []*notification.Message{}
	for _, job := range jobs {
		msg, err := job.Build(context.Background())
		if err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, nil
}

type fakeFiles struct {
	objects map[string]string
}

func (f *fakeFiles) UploadAttachment(ctx context.Context, key string, fileReader io.Reader, fileSize int64, contentType string) error {
	data, err := io.ReadAll(fileReader)
	if err != nil {
		return err
	}
	f.objects[key] = string(data)
	return nil
}

func (f *fakeFiles) GetAttachment(ctx context.Context, key string) (*filestorage.Attachment, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, nil
	}
	return &filestorage.Attachment{
		Reader:      io.NopCloser(strings.NewReader(data)),
		Size:        int64(len(data)),
		ContentType: "application/pdf",
	}, nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []wsmodels.ServerMessage
}

func (f *fakeEvents) AddClient(userID string, conn connectionhub.Conn) {}

func (f *fakeEvents) DeleteClient(userID string) {}

func (f *fakeEvents) Broadcast(msg wsmodels.ServerMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, msg)
}

func (f *fakeEvents) IsConnected(userID string) bool {
	return false
}

func (f *fakeEvents) ConnectedCount() int {
	return 0
}

func (f *fakeEvents) codes() []wsmodels.EventCode {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := []wsmodels.EventCode{}
	for _, event := range f.events {
		result = append(result, event.Code)
	}
	return result
}
