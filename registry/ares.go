// Package registry 通过 ARES（捷克经济主体登记处）的 REST 接口按 IČO 查询实体信息。
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ByLCY/faktura/invoice"
)

var (
	// ErrNotFound 表示登记处中不存在该 IČO。
	ErrNotFound = errors.New("registry: entity not found")
	// ErrBadResponse 表示登记处返回了非 2xx 状态，或无法解析、不完整的数据。
	ErrBadResponse = errors.New("registry: bad response")
	// ErrNetwork 表示请求未能完成（连接失败、超时）。
	ErrNetwork = errors.New("registry: network error")
)

// DefaultBaseURL 是 ARES REST 接口的根地址。
const DefaultBaseURL = "https://ares.gov.cz/ekonomicke-subjekty-v-be/rest"

var _ invoice.Resolver = (*Client)(nil)

// Client 是 ARES 查询客户端，实现 invoice.Resolver。
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New 创建客户端。baseURL 为空时使用 DefaultBaseURL，timeout <= 0 时为 10 秒。
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type aresResponse struct {
	ICO  string   `json:"ico"`
	Name string   `json:"obchodniJmeno"`
	Seat aresSeat `json:"sidlo"`
	DIC  *string  `json:"dic"`
}

type aresSeat struct {
	Municipality      string  `json:"nazevObce"`
	MunicipalityPart  string  `json:"nazevCastiObce"`
	CityPart          *string `json:"nazevMestskeCastiObvodu"`
	Street            *string `json:"nazevUlice"`
	HouseNumber       uint32  `json:"cisloDomovni"`
	OrientationNumber *uint32 `json:"cisloOrientacni"`
	PostalCode        uint32  `json:"psc"`
}

// Resolve 查询 IČO 对应的实体。
func (c *Client) Resolve(ctx context.Context, id invoice.RegistrationNumber) (*invoice.Entity, error) {
	url := fmt.Sprintf("%s/ekonomicke-subjekty/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: 构造请求: %v", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: ARES 返回状态 %d", ErrBadResponse, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: 读取响应: %v", ErrNetwork, err)
	}
	var ar aresResponse
	if err := json.Unmarshal(body, &ar); err != nil {
		return nil, fmt.Errorf("%w: 解析响应: %v", ErrBadResponse, err)
	}
	return toEntity(id, ar)
}

// toEntity 把 ARES 的 sidlo 映射为地址：城区名优先于市名（"Praha-Nové Město" → "Praha - Nové Město"），
// 没有街道名时使用村镇部分名。
func toEntity(id invoice.RegistrationNumber, ar aresResponse) (*invoice.Entity, error) {
	if strings.TrimSpace(ar.Name) == "" {
		return nil, fmt.Errorf("%w: 缺少 obchodniJmeno", ErrBadResponse)
	}
	seat := ar.Seat

	city := seat.Municipality
	if seat.CityPart != nil && *seat.CityPart != "" {
		city = strings.Join(strings.Split(*seat.CityPart, "-"), " - ")
	}
	street := seat.MunicipalityPart
	if seat.Street != nil && *seat.Street != "" {
		street = *seat.Street
	}
	var orientation uint32
	if seat.OrientationNumber != nil {
		orientation = *seat.OrientationNumber
	}
	postal := ""
	if seat.PostalCode != 0 {
		postal = strconv.FormatUint(uint64(seat.PostalCode), 10)
	}

	addr, err := invoice.NewAddress(street, seat.HouseNumber, orientation, postal, city)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	entity := &invoice.Entity{
		Identifier: id,
		Name:       strings.TrimSpace(ar.Name),
		Address:    addr,
	}
	if ar.DIC != nil {
		entity.VATNumber = strings.TrimSpace(*ar.DIC)
	}
	return entity, nil
}
