// Package docs registers the OpenAPI document served by gin-swagger.
// Regenerate with `swag init` after changing controller annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/health": {"get": {"tags": ["系统"], "summary": "健康检查", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}},
        "/api/login": {"post": {"tags": ["认证"], "summary": "参与者登录", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/api/profile": {"get": {"security": [{"ApiKeyAuth": []}], "tags": ["认证"], "summary": "获取当前参与者档案", "responses": {"200": {"description": "OK"}}}},
        "/api/dashboard": {"get": {"security": [{"ApiKeyAuth": []}], "tags": ["首页"], "summary": "首页数据", "responses": {"200": {"description": "OK"}}}},
        "/api/daily/today": {"get": {"security": [{"ApiKeyAuth": []}], "tags": ["每日记录"], "summary": "获取今天的记录", "responses": {"200": {"description": "OK"}}}},
        "/api/daily/history": {"get": {"security": [{"ApiKeyAuth": []}], "tags": ["每日记录"], "summary": "最近的历史记录", "responses": {"200": {"description": "OK"}}}},
        "/api/daily/monthly": {"get": {"security": [{"ApiKeyAuth": []}], "tags": ["每日记录"], "summary": "今年每月的积分与完成餐数", "responses": {"200": {"description": "OK"}}}},
        "/api/daily/{date}": {"get": {"security": [{"ApiKeyAuth": []}], "tags": ["每日记录"], "summary": "获取指定日期的记录", "parameters": [{"type": "string", "name": "date", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/daily/{date}/meals/{mealId}": {"patch": {"security": [{"ApiKeyAuth": []}], "tags": ["每日记录"], "summary": "修改餐食状态", "parameters": [{"type": "string", "name": "date", "in": "path", "required": true}, {"type": "string", "name": "mealId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/api/daily/{date}/note": {"put": {"security": [{"ApiKeyAuth": []}], "tags": ["每日记录"], "summary": "修改当天寄语", "parameters": [{"type": "string", "name": "date", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/achievements": {"get": {"security": [{"ApiKeyAuth": []}], "tags": ["成就"], "summary": "成就列表", "responses": {"200": {"description": "OK"}}}},
        "/api/notifications/unread": {"get": {"security": [{"ApiKeyAuth": []}], "tags": ["通知"], "summary": "未读通知", "responses": {"200": {"description": "OK"}}}},
        "/api/notifications/read": {"post": {"security": [{"ApiKeyAuth": []}], "tags": ["通知"], "summary": "标记已读", "responses": {"200": {"description": "OK"}}}},
        "/api/templates": {"get": {"security": [{"ApiKeyAuth": []}], "tags": ["模板"], "summary": "餐食模板列表", "responses": {"200": {"description": "OK"}}}},
        "/api/settings/day": {"get": {"security": [{"ApiKeyAuth": []}], "tags": ["模板"], "summary": "一天开始/结束设置", "responses": {"200": {"description": "OK"}}}},
        "/api/ws": {"get": {"security": [{"ApiKeyAuth": []}], "tags": ["实时"], "summary": "订阅实时更新", "parameters": [{"type": "string", "name": "topic", "in": "query", "required": true}], "responses": {"101": {"description": "Switching Protocols"}}}},
        "/api/admin/daily/{date}/bonus": {"post": {"security": [{"ApiKeyAuth": []}], "tags": ["管理"], "summary": "添加奖励积分", "parameters": [{"type": "string", "name": "date", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/admin/templates": {"post": {"security": [{"ApiKeyAuth": []}], "tags": ["管理"], "summary": "新建餐食模板", "responses": {"201": {"description": "Created"}}}},
        "/api/admin/templates/{id}": {
            "put": {"security": [{"ApiKeyAuth": []}], "tags": ["管理"], "summary": "修改餐食模板", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"ApiKeyAuth": []}], "tags": ["管理"], "summary": "删除餐食模板", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/admin/settings/day": {"put": {"security": [{"ApiKeyAuth": []}], "tags": ["管理"], "summary": "修改一天开始/结束设置", "responses": {"200": {"description": "OK"}}}},
        "/api/admin/achievements": {"post": {"security": [{"ApiKeyAuth": []}], "tags": ["管理"], "summary": "新建成就", "responses": {"201": {"description": "Created"}}}},
        "/api/admin/achievements/{id}": {
            "put": {"security": [{"ApiKeyAuth": []}], "tags": ["管理"], "summary": "修改成就", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"ApiKeyAuth": []}], "tags": ["管理"], "summary": "删除成就", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/admin/achievements/{id}/complete": {"post": {"security": [{"ApiKeyAuth": []}], "tags": ["管理"], "summary": "解锁成就", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/admin/export": {"post": {"security": [{"ApiKeyAuth": []}], "tags": ["管理"], "summary": "导出每日记录", "responses": {"200": {"description": "OK"}}}}
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Meal Streak API",
	Description:      "两人餐食打卡与积分后端服务。",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
