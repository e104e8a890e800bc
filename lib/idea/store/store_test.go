package ideastore

import (
	ideaapimodels "idea-portal-backend/models/api/idea"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildFilter(t *testing.T) {
	relocating := bson.M{"$exists": false}

	t.Run("пустой фильтр", func(t *testing.T) {
		require.Equal(t, bson.M{"relocation": relocating}, BuildFilter(ideaapimodels.IdeaFilter{}))
	})
	t.Run("статус и исключение статуса", func(t *testing.T) {
		got := BuildFilter(ideaapimodels.IdeaFilter{Status: "Pending", ExcludeStatus: "Rejected"})
		require.Equal(t, bson.M{
			"relocation": relocating,
			"status":     bson.M{"$eq": "Pending", "$ne": "Rejected"},
		}, got)
	})
	t.Run("по сотруднику", func(t *testing.T) {
		got := BuildFilter(ideaapimodels.IdeaFilter{EmployeeID: "EMP-7"}.Normalize())
		require.Equal(t, bson.M{
			"relocation": relocating,
			"status":     bson.M{"$ne": "Rejected"},
			"employeeId": "EMP-7",
		}, got)
	})
}
