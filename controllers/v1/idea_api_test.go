package apiv1

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	filestorage "idea-portal-backend/lib/file-storage"
	ideahandler "idea-portal-backend/lib/idea"
	apperrors "idea-portal-backend/lib/utils/app-errors"
	"idea-portal-backend/models"
	ideaapimodels "idea-portal-backend/models/api/idea"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func multipartBody(t *testing.T, fields map[string]string, fileName, fileBody string) (*bytes.Buffer, string) {
	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := w.CreateFormFile("attachment", fileName)
		require.NoError(t, err)
		_, err = fw.Write([]byte(fileBody))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func TestSubmitIdea(t *testing.T) {
	var gotData ideaapimodels.IdeaSubmitData
	var gotFile string
	var gotName string
	ideahandler.Instance = fakeIdeas{
		submit: func(data ideaapimodels.IdeaSubmitData, attachment *ideaapimodels.Attachment) (*ideaapimodels.IdeaView, error) {
			gotData = data
			gotName, gotFile = "", ""
			if attachment != nil {
				body, err := io.ReadAll(attachment.Reader)
				if err != nil {
					return nil, err
				}
				gotName, gotFile = attachment.FileName, string(body)
			}
			return &ideaapimodels.IdeaView{ID: "abc", Status: "Pending"}, nil
		},
	}
	app := newTestApp()
	fields := map[string]string{
		"employeeName":    "Ivan",
		"employeeId":      "EMP-1",
		"ideaDescription": "Automate invoices",
		"ideaTheme":       "Automation",
	}

	t.Run("с вложением", func(t *testing.T) {
		body, contentType := multipartBody(t, fields, "plan v1.pdf", "file-content")
		req := httptest.NewRequest(fiber.MethodPost, "/ideas", body)
		req.Header.Set(fiber.HeaderContentType, contentType)
		req.Header.Set(fiber.HeaderAuthorization, bearer(t, "EMP-1", models.EmployeeRole))
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		out := decode(t, resp)
		require.Equal(t, "success", out.Status)
		require.Equal(t, "Automation", gotData.IdeaTheme)
		require.Equal(t, "plan v1.pdf", gotName)
		require.Equal(t, "file-content", gotFile)
	})
	t.Run("без вложения", func(t *testing.T) {
		body, contentType := multipartBody(t, fields, "", "")
		req := httptest.NewRequest(fiber.MethodPost, "/ideas", body)
		req.Header.Set(fiber.HeaderContentType, contentType)
		req.Header.Set(fiber.HeaderAuthorization, bearer(t, "EMP-1", models.EmployeeRole))
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		require.Empty(t, gotName)
	})
	t.Run("нет обязательных полей", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{"employeeName": "Ivan"}, "", "")
		req := httptest.NewRequest(fiber.MethodPost, "/ideas", body)
		req.Header.Set(fiber.HeaderContentType, contentType)
		req.Header.Set(fiber.HeaderAuthorization, bearer(t, "EMP-1", models.EmployeeRole))
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		out := decode(t, resp)
		require.Equal(t, "fail", out.Status)
		require.Contains(t, out.Message, "Missing required fields")
	})
	t.Run("без токена", func(t *testing.T) {
		body, contentType := multipartBody(t, fields, "", "")
		req := httptest.NewRequest(fiber.MethodPost, "/ideas", body)
		req.Header.Set(fiber.HeaderContentType, contentType)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestListIdeas(t *testing.T) {
	var got ideaapimodels.IdeaFilter
	ideahandler.Instance = fakeIdeas{
		list: func(filter ideaapimodels.IdeaFilter) ([]ideaapimodels.IdeaView, error) {
			got = filter
			return []ideaapimodels.IdeaView{}, nil
		},
	}
	app := newTestApp()

	t.Run("администратор, по умолчанию без отклонённых", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/ideas", nil)
		req.Header.Set(fiber.HeaderAuthorization, bearer(t, "ADM-1", models.AdminL1Role))
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		require.Equal(t, "Rejected", got.ExcludeStatus)
		require.Empty(t, got.EmployeeID)
	})
	t.Run("фильтр по статусу", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/ideas?status=ApprovedByL1Admin", nil)
		req.Header.Set(fiber.HeaderAuthorization, bearer(t, "ADM-1", models.AdminL1Role))
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		require.Equal(t, "ApprovedByL1Admin", got.Status)
		require.Empty(t, got.ExcludeStatus)
	})
	t.Run("сотрудник видит только свои идеи", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/ideas?employeeId=EMP-2", nil)
		req.Header.Set(fiber.HeaderAuthorization, bearer(t, "EMP-1", models.EmployeeRole))
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		require.Equal(t, "EMP-1", got.EmployeeID)
	})
}

func TestGetIdea(t *testing.T) {
	ideahandler.Instance = fakeIdeas{
		get: func(id string) (*ideaapimodels.IdeaView, error) {
			if id == "missing" {
				return nil, apperrors.NewNotFound("Idea not found")
			}
			view := ideaapimodels.IdeaView{ID: id}
			view.EmployeeID = "EMP-1"
			return &view, nil
		},
	}
	app := newTestApp()
	cases := []struct {
		name   string
		path   string
		user   string
		role   models.UserRole
		status int
	}{
		{"автор", "/ideas/abc", "EMP-1", models.EmployeeRole, fiber.StatusOK},
		{"чужая идея", "/ideas/abc", "EMP-2", models.EmployeeRole, fiber.StatusForbidden},
		{"администратор", "/ideas/abc", "ADM-1", models.AdminL2Role, fiber.StatusOK},
		{"не найдена", "/ideas/missing", "ADM-1", models.AdminL2Role, fiber.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, tc.path, nil)
			req.Header.Set(fiber.HeaderAuthorization, bearer(t, tc.user, tc.role))
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestIdeaAttachment(t *testing.T) {
	ideahandler.Instance = fakeIdeas{
		attachment: func(id string) (*filestorage.Attachment, string, error) {
			if id == "none" {
				return nil, "", apperrors.NewNotFound("Attachment not found")
			}
			return &filestorage.Attachment{
				Reader:      io.NopCloser(strings.NewReader("pdf-bytes")),
				Size:        9,
				ContentType: "application/pdf",
			}, "EMP-1_plan.pdf", nil
		},
	}
	app := newTestApp()

	req := httptest.NewRequest(fiber.MethodGet, "/ideas/abc/attachment", nil)
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, "ADM-1", models.AdminL1Role))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	require.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "EMP-1_plan.pdf")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "pdf-bytes", string(body))

	req = httptest.NewRequest(fiber.MethodGet, "/ideas/none/attachment", nil)
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, "ADM-1", models.AdminL1Role))
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUserIdeas(t *testing.T) {
	ideahandler.Instance = fakeIdeas{}
	app := newTestApp()

	req := httptest.NewRequest(fiber.MethodGet, "/users/EMP-1/ideas", nil)
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, "EMP-1", models.EmployeeRole))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodGet, "/users/EMP-2/ideas", nil)
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, "EMP-1", models.EmployeeRole))
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
