package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/seevideo/see-video-studio/common"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Session{}, &File{}, &AssetCache{}, &Order{}))
	DB = db
}

func TestSessionValueRoundTrip(t *testing.T) {
	setupTestDB(t)

	value, err := GetSessionValue("u1", SessionKeyLanguage)
	require.NoError(t, err)
	assert.Equal(t, "", value)

	require.NoError(t, SetSessionValue("u1", SessionKeyLanguage, "zh"))
	value, err = GetSessionValue("u1", SessionKeyLanguage)
	require.NoError(t, err)
	assert.Equal(t, "zh", value)

	// 覆盖写
	require.NoError(t, SetSessionValue("u1", SessionKeyLanguage, "en"))
	value, err = GetSessionValue("u1", SessionKeyLanguage)
	require.NoError(t, err)
	assert.Equal(t, "en", value)

	// 清空只影响目标用户
	require.NoError(t, SetSessionValue("u2", SessionKeyLanguage, "zh"))
	require.NoError(t, ClearSession("u1"))
	value, err = GetSessionValue("u1", SessionKeyLanguage)
	require.NoError(t, err)
	assert.Equal(t, "", value)
	value, err = GetSessionValue("u2", SessionKeyLanguage)
	require.NoError(t, err)
	assert.Equal(t, "zh", value)
}

func TestOrderStatusOnlyAdvances(t *testing.T) {
	setupTestDB(t)

	plan, err := MatchRechargePlan(10, 1050)
	require.NoError(t, err)
	order, err := CreateOrder("u1", plan, "cny")
	require.NoError(t, err)
	assert.Equal(t, common.OrderStatusCreate, order.Status)
	assert.Equal(t, int64(1000), order.AmountCents)

	require.NoError(t, BindStripeSession(order.OrderNo, "cs_test_123"))
	loaded, err := GetOrderByStripeSession("cs_test_123")
	require.NoError(t, err)
	assert.Equal(t, common.OrderStatusPending, loaded.Status)

	require.NoError(t, AdvanceOrderStatus(order.OrderNo, common.OrderStatusSuccess))
	// 回调重放是空操作
	require.NoError(t, AdvanceOrderStatus(order.OrderNo, common.OrderStatusSuccess))
	// 状态不回退
	require.NoError(t, AdvanceOrderStatus(order.OrderNo, common.OrderStatusPending))

	loaded, err = GetOrderByOrderNo(order.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, common.OrderStatusSuccess, loaded.Status)
}

func TestOrderTerminalStatuses(t *testing.T) {
	setupTestDB(t)

	plan, err := MatchRechargePlan(1, 100)
	require.NoError(t, err)

	// 迟到的 expired 回调不能把已付款的单子翻成失败
	paid, err := CreateOrder("u1", plan, "cny")
	require.NoError(t, err)
	require.NoError(t, AdvanceOrderStatus(paid.OrderNo, common.OrderStatusSuccess))
	require.NoError(t, AdvanceOrderStatus(paid.OrderNo, common.OrderStatusFail))
	loaded, err := GetOrderByOrderNo(paid.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, common.OrderStatusSuccess, loaded.Status)

	// 成功的单子还能走退款
	require.NoError(t, AdvanceOrderStatus(paid.OrderNo, common.OrderStatusRefund))
	loaded, err = GetOrderByOrderNo(paid.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, common.OrderStatusRefund, loaded.Status)

	// 失败是终态
	failed, err := CreateOrder("u2", plan, "cny")
	require.NoError(t, err)
	require.NoError(t, AdvanceOrderStatus(failed.OrderNo, common.OrderStatusFail))
	require.NoError(t, AdvanceOrderStatus(failed.OrderNo, common.OrderStatusSuccess))
	loaded, err = GetOrderByOrderNo(failed.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, common.OrderStatusFail, loaded.Status)
}

func TestMatchRechargePlan(t *testing.T) {
	plan, err := MatchRechargePlan(30, 3300)
	require.NoError(t, err)
	assert.Equal(t, 3, plan.Id)

	// 金额和积分必须成对匹配
	_, err = MatchRechargePlan(30, 9999)
	assert.Error(t, err)
	_, err = MatchRechargePlan(2, 100)
	assert.Error(t, err)
}

func TestUpsertAssetCachePreservesPaths(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, UpsertAssetCache(&AssetCache{
		AssetId:        "a1",
		UserId:         "u1",
		CoverLocalPath: "/uploads/a1-cover.png",
	}))
	// 第二次只带视频路径，封面路径不能被抹掉
	require.NoError(t, UpsertAssetCache(&AssetCache{
		AssetId:        "a1",
		UserId:         "u1",
		VideoLocalPath: "/uploads/a1-video.mp4",
	}))

	cacheMap, err := GetAssetCacheMap("u1")
	require.NoError(t, err)
	require.Contains(t, cacheMap, "a1")
	assert.Equal(t, "/uploads/a1-cover.png", cacheMap["a1"].CoverLocalPath)
	assert.Equal(t, "/uploads/a1-video.mp4", cacheMap["a1"].VideoLocalPath)
}

func TestFileRecords(t *testing.T) {
	setupTestDB(t)

	file := &File{UserId: "u1", Bytes: 1024, FileName: "x.png", StoreUrl: "/uploads/x.png"}
	require.NoError(t, file.Insert())
	file2 := &File{UserId: "u1", Bytes: 2048, FileName: "y.png", StoreUrl: "/uploads/y.png"}
	require.NoError(t, file2.Insert())

	total, err := SumBytesByUserId("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(3072), total)

	require.NoError(t, UpdateFileMirrorUrl("x.png", "https://mirror.example.com/x.png"))
	loaded, err := GetFileByFilename("x.png")
	require.NoError(t, err)
	assert.Equal(t, "https://mirror.example.com/x.png", loaded.MirrorUrl)

	require.NoError(t, DeleteFileByFilename("x.png"))
	_, err = GetFileByFilename("x.png")
	assert.Error(t, err)
}
