// Package upstream 封装对 see-video-server 的访问：生成提交、资产列表、
// 积分余额。每个操作都接收 context，列表拉取依赖它实现中止。
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/seevideo/see-video-studio/common/config"
	"github.com/seevideo/see-video-studio/generation/assets"
	"github.com/seevideo/see-video-studio/generation/builder"
	"github.com/seevideo/see-video-studio/service"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient() (*Client, error) {
	httpClient, err := service.GetUpstreamClient()
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:    config.UpstreamBaseURL,
		httpClient: httpClient,
	}, nil
}

// NewClientWith 指定地址和客户端，测试用
func NewClientWith(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// doJSON 发请求并解出统一响应壳。带了 token 就附 Bearer 头，
// 没带就匿名调用，由上游自己拒绝。
func (c *Client) doJSON(ctx context.Context, method, path, token string, body io.Reader) (*ApiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "new upstream request failed")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read upstream response failed")
	}

	var apiResp ApiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		// 上游没按约定返回 JSON，把状态码当业务错误抛出去
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("upstream returned %d: %.200s", resp.StatusCode, string(respBody)),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !apiResp.Success {
		msg := apiResp.ErrorMessage()
		if msg == "" {
			msg = fmt.Sprintf("upstream request failed with status %d", resp.StatusCode)
		}
		return nil, &Error{StatusCode: resp.StatusCode, Message: msg}
	}
	return &apiResp, nil
}

// Generate 提交生成任务，恰好一次网络调用，不重试
func (c *Client) Generate(ctx context.Context, token string, req *builder.Request) (*GenerateResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "marshal generation request failed")
	}

	apiResp, err := c.doJSON(ctx, http.MethodPost, "/api/generate", token, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var result GenerateResult
	if len(apiResp.Data) > 0 {
		if err := json.Unmarshal(apiResp.Data, &result); err != nil {
			return nil, errors.Wrap(err, "decode generate result failed")
		}
	}
	return &result, nil
}

// ListAssets 拉取资产列表。ctx 取消（页面卸载、被更新的查询顶掉）
// 会让请求中止，调用方应把 context.Canceled 当空操作处理。
func (c *Client) ListAssets(ctx context.Context, token string) ([]assets.Asset, error) {
	apiResp, err := c.doJSON(ctx, http.MethodGet, "/api/list", token, nil)
	if err != nil {
		return nil, err
	}

	var data assetListData
	if len(apiResp.Data) > 0 {
		if err := json.Unmarshal(apiResp.Data, &data); err != nil {
			return nil, errors.Wrap(err, "decode asset list failed")
		}
	}
	var list []assets.Asset
	if len(data.AssetList) > 0 {
		if err := json.Unmarshal(data.AssetList, &list); err != nil {
			return nil, errors.Wrap(err, "decode asset records failed")
		}
	}
	return list, nil
}

// GetCreditsBalance 查询积分余额
func (c *Client) GetCreditsBalance(ctx context.Context, token string) (int64, error) {
	apiResp, err := c.doJSON(ctx, http.MethodGet, "/api/credits/balance", token, nil)
	if err != nil {
		return 0, err
	}

	var data creditsData
	if len(apiResp.Data) > 0 {
		if err := json.Unmarshal(apiResp.Data, &data); err != nil {
			return 0, errors.Wrap(err, "decode credits balance failed")
		}
	}
	return data.Credits, nil
}
