package httpapi

import (
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// tideProxy forwards a tide prediction request to NOAA's CO-OPS
// datagetter, station and date range taken verbatim from the query
// string. This is intentionally a narrow passthrough: the response body is
// streamed back unparsed, since tide prediction modeling is out of scope
// here.
type tideProxy struct {
	client  *http.Client
	baseURL string
}

func newTideProxy(client *http.Client, baseURL string) *tideProxy {
	return &tideProxy{client: client, baseURL: baseURL}
}

func (t *tideProxy) handle(c *fiber.Ctx) error {
	stationID := c.Params("id")
	if stationID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "station id is required")
	}

	q := c.Context().QueryArgs()
	url := t.baseURL + "?station=" + stationID +
		"&product=" + defaultString(string(q.Peek("product")), "predictions") +
		"&datum=" + defaultString(string(q.Peek("datum")), "MLLW") +
		"&time_zone=" + defaultString(string(q.Peek("time_zone")), "gmt") +
		"&interval=" + defaultString(string(q.Peek("interval")), "hilo") +
		"&units=" + defaultString(string(q.Peek("units")), "english") +
		"&format=json&application=marine-aggregator"

	if begin := q.Peek("begin_date"); len(begin) > 0 {
		url += "&begin_date=" + string(begin)
	}
	if end := q.Peek("end_date"); len(end) > 0 {
		url += "&end_date=" + string(end)
	}
	if date := q.Peek("date"); len(date) > 0 {
		url += "&date=" + string(date)
	}

	req, err := http.NewRequestWithContext(c.Context(), http.MethodGet, url, nil)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "building tide request")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "fetching tide data: "+err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "reading tide response")
	}

	c.Status(resp.StatusCode)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
