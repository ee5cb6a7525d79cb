package model

import (
	"errors"
	"sync"

	"github.com/seevideo/see-video-studio/common"
	"github.com/seevideo/see-video-studio/common/helper"
	"gorm.io/gorm"
)

// Order 充值订单。状态只能向前推进（Create -> Pending -> Success/Fail），
// Stripe 回调可能重放，重复的状态更新是空操作。
type Order struct {
	Id              int    `json:"id"`
	UserId          string `json:"user_id" gorm:"type:varchar(64);index"`
	OrderNo         string `json:"order_no" gorm:"type:varchar(64);uniqueIndex"`
	PlanId          int    `json:"plan_id"`
	AmountCents     int64  `json:"amount_cents"`
	Credits         int64  `json:"credits"`
	Currency        string `json:"currency" gorm:"type:varchar(10)"`
	Status          int    `json:"status" gorm:"default:1"`
	StripeSessionId string `json:"stripe_session_id" gorm:"type:varchar(255);index"`
	CreatedTime     int64  `json:"created_time" gorm:"bigint"`
	UpdatedTime     int64  `json:"updated_time" gorm:"bigint"`
}

// RechargePlan 充值档位，amount 单位是元，和前端充值弹窗展示的价格一致
type RechargePlan struct {
	Id      int    `json:"id"`
	Amount  int64  `json:"amount"`
	Credits int64  `json:"credits"`
	Label   string `json:"label"`
}

// 档位和赠送比例是运营定的，改动要和前端充值弹窗一起发
var RechargePlans = []RechargePlan{
	{Id: 1, Amount: 1, Credits: 100, Label: "尝鲜"},
	{Id: 2, Amount: 10, Credits: 1050, Label: "基础"},
	{Id: 3, Amount: 30, Credits: 3300, Label: "进阶"},
	{Id: 4, Amount: 50, Credits: 5750, Label: "专业"},
}

// MatchRechargePlan 下单请求带的是 {amount, credits}，必须和某个档位
// 完全对上，防止前端传来自造的金额
func MatchRechargePlan(amount int64, credits int64) (*RechargePlan, error) {
	for i := range RechargePlans {
		if RechargePlans[i].Amount == amount && RechargePlans[i].Credits == credits {
			return &RechargePlans[i], nil
		}
	}
	return nil, errors.New("recharge plan not found")
}

var orderLock sync.Mutex

// CreateOrder 生成一笔 Create 状态的订单并返回订单号
func CreateOrder(userId string, plan *RechargePlan, currency string) (*Order, error) {
	order := &Order{
		UserId:      userId,
		OrderNo:     helper.GenOrderNo(userId),
		PlanId:      plan.Id,
		AmountCents: plan.Amount * 100,
		Credits:     plan.Credits,
		Currency:    currency,
		Status:      common.OrderStatusCreate,
		CreatedTime: helper.GetTimestamp(),
		UpdatedTime: helper.GetTimestamp(),
	}
	if err := DB.Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func GetOrderByOrderNo(orderNo string) (*Order, error) {
	var order Order
	err := DB.Where("order_no = ?", orderNo).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func GetOrderByStripeSession(sessionId string) (*Order, error) {
	var order Order
	err := DB.Where("stripe_session_id = ?", sessionId).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func BindStripeSession(orderNo string, sessionId string) error {
	return DB.Model(&Order{}).Where("order_no = ?", orderNo).Updates(Order{
		StripeSessionId: sessionId,
		Status:          common.OrderStatusPending,
		UpdatedTime:     helper.GetTimestamp(),
	}).Error
}

// canAdvanceOrder Success 和 Fail 互为终态，迟到的 expired 回调
// 不能把已付款的单子翻成失败。成功的单子只剩退款一条路。
func canAdvanceOrder(from int, to int) bool {
	switch from {
	case common.OrderStatusSuccess:
		return to == common.OrderStatusRefund
	case common.OrderStatusFail, common.OrderStatusRefund:
		return false
	default:
		return to > from
	}
}

// AdvanceOrderStatus 状态只前进不回退，重放和乱序的回调落在这里会被吞掉
func AdvanceOrderStatus(orderNo string, status int) error {
	orderLock.Lock()
	defer orderLock.Unlock()
	var order Order
	if err := DB.Where("order_no = ?", orderNo).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("order not found")
		}
		return err
	}
	if !canAdvanceOrder(order.Status, status) {
		return nil
	}
	return DB.Model(&Order{}).Where("order_no = ?", orderNo).Updates(Order{
		Status:      status,
		UpdatedTime: helper.GetTimestamp(),
	}).Error
}

func ListOrdersByUser(userId string, limit int) ([]*Order, error) {
	if limit <= 0 {
		limit = 20
	}
	var orders []*Order
	err := DB.Where("user_id = ?", userId).Order("id desc").Limit(limit).Find(&orders).Error
	return orders, err
}
