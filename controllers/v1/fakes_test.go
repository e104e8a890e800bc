package apiv1

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	filestorage "idea-portal-backend/lib/file-storage"
	authutils "idea-portal-backend/lib/utils/auth-utils"
	"idea-portal-backend/middleware"
	"idea-portal-backend/models"
	apimodels "idea-portal-backend/models/api"
	ideaapimodels "idea-portal-backend/models/api/idea"
	otpapimodels "idea-portal-backend/models/api/otp"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func bearer(t *testing.T, corporateID string, role models.UserRole) string {
	token, err := authutils.NewToken(testSecret, time.Hour, corporateID, "Tester", role)
	require.NoError(t, err)
	return "Bearer " + token
}

func newTestApp() *fiber.App {
	app := fiber.New()
	InitOtpApiRouters(app)

	authorized := app.Group("", middleware.AuthorizationWithSecret(testSecret))
	review := authorized.Group("review", middleware.AdminRoleRequired())
	InitReviewApiRouters(review)
	InitIdeaApiRouters(authorized)
	InitCredentialsApiRouters(authorized)
	return app
}

func decode(t *testing.T, resp *http.Response) apimodels.Response {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out apimodels.Response
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

type fakeIdeas struct {
	submit     func(data ideaapimodels.IdeaSubmitData, attachment *ideaapimodels.Attachment) (*ideaapimodels.IdeaView, error)
	list       func(filter ideaapimodels.IdeaFilter) ([]ideaapimodels.IdeaView, error)
	get        func(id string) (*ideaapimodels.IdeaView, error)
	advance    func(id string, data ideaapimodels.AdvanceData) (*ideaapimodels.IdeaView, error)
	reject     func(id string, data ideaapimodels.RejectData) (*ideaapimodels.RejectedIdeaView, error)
	bookmark   func(id, adminID string) ([]string, error)
	attachment func(id string) (*filestorage.Attachment, string, error)
	rejected   func(filter ideaapimodels.IdeaFilter) ([]ideaapimodels.RejectedIdeaView, error)
}

func (f fakeIdeas) Submit(ctx context.Context, data ideaapimodels.IdeaSubmitData, attachment *ideaapimodels.Attachment) (*ideaapimodels.IdeaView, error) {
	return f.submit(data, attachment)
}

func (f fakeIdeas) List(ctx context.Context, filter ideaapimodels.IdeaFilter) ([]ideaapimodels.IdeaView, error) {
	return f.list(filter)
}

func (f fakeIdeas) Get(ctx context.Context, id string) (*ideaapimodels.IdeaView, error) {
	return f.get(id)
}

func (f fakeIdeas) UserSummary(ctx context.Context, employeeID string) (*ideaapimodels.UserIdeasSummary, error) {
	return &ideaapimodels.UserIdeasSummary{TotalIdeas: 1}, nil
}

func (f fakeIdeas) Advance(ctx context.Context, id string, data ideaapimodels.AdvanceData) (*ideaapimodels.IdeaView, error) {
	return f.advance(id, data)
}

func (f fakeIdeas) Reject(ctx context.Context, id string, data ideaapimodels.RejectData) (*ideaapimodels.RejectedIdeaView, error) {
	return f.reject(id, data)
}

func (f fakeIdeas) ListRejected(ctx context.Context, filter ideaapimodels.IdeaFilter) ([]ideaapimodels.RejectedIdeaView, error) {
	if f.rejected == nil {
		return []ideaapimodels.RejectedIdeaView{}, nil
	}
	return f.rejected(filter)
}

func (f fakeIdeas) ToggleBookmark(ctx context.Context, id, adminID string) ([]string, error) {
	return f.bookmark(id, adminID)
}

func (f fakeIdeas) Attachment(ctx context.Context, id string) (*filestorage.Attachment, string, error) {
	return f.attachment(id)
}

func (f fakeIdeas) ResumeRelocations(ctx context.Context, requestedBefore time.Time) (int, error) {
	return 0, nil
}

type fakeOtp struct {
	request func(corporateID string) (*otpapimodels.OtpIssued, error)
	verify  func(corporateID, code string) (*otpapimodels.OtpVerified, error)
}

func (f fakeOtp) Request(ctx context.Context, corporateID string) (*otpapimodels.OtpIssued, error) {
	return f.request(corporateID)
}

func (f fakeOtp) Resend(ctx context.Context, corporateID string) (*otpapimodels.OtpIssued, error) {
	return f.request(corporateID)
}

func (f fakeOtp) Verify(ctx context.Context, corporateID, code string) (*otpapimodels.OtpVerified, error) {
	return f.verify(corporateID, code)
}
