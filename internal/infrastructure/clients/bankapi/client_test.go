package bankapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elvinq/branchfeedback/backend/internal/infrastructure/clients/bankapi"
)

func TestFetchServiceNetwork_SendsRequiredHeaders(t *testing.T) {
	var gotAccept, gotOrigin, gotReferer string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotOrigin = r.Header.Get("Origin")
		gotReferer = r.Header.Get("Referer")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"statusCode":200,"messages":null,"payload":{"contents":[]}}`))
	}))
	defer server.Close()

	client := bankapi.NewClient(server.URL, "https://www.bankofbaku.com")
	resp, err := client.FetchServiceNetwork(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, resp.Payload)
	assert.Empty(t, resp.Payload.Contents)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "https://www.bankofbaku.com", gotOrigin)
	assert.Equal(t, "https://www.bankofbaku.com/", gotReferer)
}

func TestFetchServiceNetwork_ParsesLocations(t *testing.T) {
	body := `{
		"statusCode": 200,
		"messages": null,
		"payload": {
			"contents": [
				{"title":"Nizami ATM","address":"X","serviceNames":"Cash withdrawal","location":"40.40, 49.86","slug":"nizami-atm","language":"en","id":"42"},
				{"title":"28 May Branch","address":"Y","serviceNames":"","location":"40.38, 49.85","slug":"28-may","language":"az","id":7}
			],
			"positionOrder": 1,
			"pageType": "serviceNetwork"
		}
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	client := bankapi.NewClient(server.URL, "")
	resp, err := client.FetchServiceNetwork(context.Background())

	require.NoError(t, err)
	require.Len(t, resp.Payload.Contents, 2)
	assert.Equal(t, "Nizami ATM", resp.Payload.Contents[0].Title)
	assert.Equal(t, bankapi.FlexID("42"), resp.Payload.Contents[0].ID)
	// numeric id decodes to the same string form
	assert.Equal(t, bankapi.FlexID("7"), resp.Payload.Contents[1].ID)
	assert.Equal(t, "az", resp.Payload.Contents[1].Language)
}

func TestFetchServiceNetwork_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := bankapi.NewClient(server.URL, "")
	_, err := client.FetchServiceNetwork(context.Background())

	require.Error(t, err)
	var upstreamErr *bankapi.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusServiceUnavailable, upstreamErr.StatusCode)
}

func TestFetchServiceNetwork_MalformedResponse(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing payload", `{"statusCode":200,"messages":null}`},
		{"missing contents", `{"statusCode":200,"payload":{"pageType":"serviceNetwork"}}`},
		{"not json", `<html>maintenance</html>`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := bankapi.NewClient(server.URL, "")
			_, err := client.FetchServiceNetwork(context.Background())

			var malformedErr *bankapi.MalformedResponseError
			require.ErrorAs(t, err, &malformedErr)
		})
	}
}
