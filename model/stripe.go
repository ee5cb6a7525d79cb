package model

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v78"
	checkoutsession "github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/webhook"

	"github.com/seevideo/see-video-studio/common"
	"github.com/seevideo/see-video-studio/common/config"
	"github.com/seevideo/see-video-studio/common/logger"
)

// CreateStripeOrder 建一笔充值订单并生成 Stripe Checkout 链接。
// 金额积分对不上任何档位直接拒单，不会碰 Stripe。
// 返回跳转地址和订单号，订单此时是 Pending 状态，等回调推进。
func CreateStripeOrder(userId string, amount int64, credits int64) (string, string, error) {
	plan, err := MatchRechargePlan(amount, credits)
	if err != nil {
		return "", "", err
	}
	order, err := CreateOrder(userId, plan, config.PaymentCurrency)
	if err != nil {
		return "", "", err
	}

	stripe.Key = config.StripePrivateKey
	successURL := config.ServerAddress + "/api/payment/success?order_no=" + order.OrderNo
	cancelURL := config.ServerAddress + "/api/payment/cancel?order_no=" + order.OrderNo

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(order.Currency),
					UnitAmount: stripe.Int64(order.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("%s %d credits", config.SystemName, order.Credits)),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		Metadata: map[string]string{
			"userId":  userId,
			"orderNo": order.OrderNo,
		},
	}
	result, err := checkoutsession.New(params)
	if err != nil {
		return "", "", err
	}
	if err = BindStripeSession(order.OrderNo, result.ID); err != nil {
		return "", "", err
	}
	return result.URL, order.OrderNo, nil
}

// HandleStripeWebhook 验签并推进订单状态。Stripe 会重放回调，
// 状态推进本身是幂等的，这里不用去重。
func HandleStripeWebhook(req *http.Request) error {
	const MaxBodyBytes = int64(65536)
	req.Body = http.MaxBytesReader(nil, req.Body, MaxBodyBytes)
	payload, err := io.ReadAll(req.Body)
	if err != nil {
		return err
	}

	event, err := webhook.ConstructEvent(payload, req.Header.Get("Stripe-Signature"), config.StripeEndpointSecret)
	if err != nil {
		return err
	}

	switch event.Type {
	case "checkout.session.completed":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			return err
		}
		orderNo, err := resolveOrderNo(&cs)
		if err != nil {
			return err
		}
		logger.SysLog(fmt.Sprintf("stripe checkout completed for order %s", orderNo))
		return AdvanceOrderStatus(orderNo, common.OrderStatusSuccess)
	case "checkout.session.expired":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			return err
		}
		orderNo, err := resolveOrderNo(&cs)
		if err != nil {
			return err
		}
		logger.SysLog(fmt.Sprintf("stripe checkout expired for order %s", orderNo))
		return AdvanceOrderStatus(orderNo, common.OrderStatusFail)
	default:
		logger.SysLog(fmt.Sprintf("unhandled stripe event type: %s", event.Type))
	}
	return nil
}

func resolveOrderNo(cs *stripe.CheckoutSession) (string, error) {
	if orderNo := cs.Metadata["orderNo"]; orderNo != "" {
		return orderNo, nil
	}
	// metadata 丢了就按 session id 反查
	order, err := GetOrderByStripeSession(cs.ID)
	if err != nil {
		return "", err
	}
	return order.OrderNo, nil
}
