package graphql

import (
	gql "github.com/graphql-go/graphql"

	"usersvc/internal/domain/model"
)

// フィールドは各structのjsonタグ名でデフォルトresolverが解決する

var userRoleEnum = gql.NewEnum(gql.EnumConfig{
	Name: "UserRole",
	Values: gql.EnumValueConfigMap{
		"USER":  &gql.EnumValueConfig{Value: model.RoleUser},
		"ADMIN": &gql.EnumValueConfig{Value: model.RoleAdmin},
	},
})

var userStatusEnum = gql.NewEnum(gql.EnumConfig{
	Name: "UserStatus",
	Values: gql.EnumValueConfigMap{
		"ACTIVE":   &gql.EnumValueConfig{Value: model.UserStatusActive},
		"INACTIVE": &gql.EnumValueConfig{Value: model.UserStatusInactive},
		"BLOCKED":  &gql.EnumValueConfig{Value: model.UserStatusBlocked},
	},
})

var userType = gql.NewObject(gql.ObjectConfig{
	Name: "User",
	Fields: gql.Fields{
		"id":          &gql.Field{Type: gql.NewNonNull(gql.ID)},
		"email":       &gql.Field{Type: gql.NewNonNull(gql.String)},
		"userName":    &gql.Field{Type: gql.NewNonNull(gql.String)},
		"status":      &gql.Field{Type: gql.NewNonNull(userStatusEnum)},
		"role":        &gql.Field{Type: gql.NewNonNull(userRoleEnum)},
		"lastLoginAt": &gql.Field{Type: gql.DateTime},
		"createdAt":   &gql.Field{Type: gql.NewNonNull(gql.DateTime)},
		"updatedAt":   &gql.Field{Type: gql.NewNonNull(gql.DateTime)},
	},
})

var tokenPairType = gql.NewObject(gql.ObjectConfig{
	Name: "TokenPair",
	Fields: gql.Fields{
		"accessToken":      &gql.Field{Type: gql.NewNonNull(gql.String)},
		"refreshToken":     &gql.Field{Type: gql.NewNonNull(gql.String)},
		"tokenType":        &gql.Field{Type: gql.NewNonNull(gql.String)},
		"expiresIn":        &gql.Field{Type: gql.NewNonNull(gql.Int)},
		"refreshExpiresIn": &gql.Field{Type: gql.NewNonNull(gql.Int)},
		"accessExpiresAt":  &gql.Field{Type: gql.NewNonNull(gql.DateTime)},
		"refreshExpiresAt": &gql.Field{Type: gql.NewNonNull(gql.DateTime)},
	},
})

var authPayloadType = gql.NewObject(gql.ObjectConfig{
	Name: "AuthPayload",
	Fields: gql.Fields{
		"user":   &gql.Field{Type: gql.NewNonNull(userType)},
		"tokens": &gql.Field{Type: gql.NewNonNull(tokenPairType)},
	},
})

var paginationMetaType = gql.NewObject(gql.ObjectConfig{
	Name: "PaginationMeta",
	Fields: gql.Fields{
		"page":       &gql.Field{Type: gql.NewNonNull(gql.Int)},
		"limit":      &gql.Field{Type: gql.NewNonNull(gql.Int)},
		"total":      &gql.Field{Type: gql.NewNonNull(gql.Int)},
		"totalPages": &gql.Field{Type: gql.NewNonNull(gql.Int)},
		"hasNext":    &gql.Field{Type: gql.NewNonNull(gql.Boolean)},
		"hasPrev":    &gql.Field{Type: gql.NewNonNull(gql.Boolean)},
	},
})

var userListType = gql.NewObject(gql.ObjectConfig{
	Name: "UserList",
	Fields: gql.Fields{
		"items": &gql.Field{Type: gql.NewNonNull(gql.NewList(gql.NewNonNull(userType)))},
		"meta":  &gql.Field{Type: gql.NewNonNull(paginationMetaType)},
	},
})

var forceLogoutType = gql.NewObject(gql.ObjectConfig{
	Name: "ForceLogoutResult",
	Fields: gql.Fields{
		"userId":  &gql.Field{Type: gql.NewNonNull(gql.ID)},
		"revoked": &gql.Field{Type: gql.NewNonNull(gql.Int)},
	},
})

var auditLogType = gql.NewObject(gql.ObjectConfig{
	Name: "AuditLog",
	Fields: gql.Fields{
		"id":           &gql.Field{Type: gql.NewNonNull(gql.Int)},
		"actorUserId":  &gql.Field{Type: gql.NewNonNull(gql.String)},
		"action":       &gql.Field{Type: gql.NewNonNull(gql.String)},
		"targetUserId": &gql.Field{Type: gql.NewNonNull(gql.ID)},
		"before":       &gql.Field{Type: gql.String, Description: "JSON snapshot before the change"},
		"after":        &gql.Field{Type: gql.String, Description: "JSON snapshot after the change"},
		"createdAt":    &gql.Field{Type: gql.NewNonNull(gql.DateTime)},
	},
})

var auditLogListType = gql.NewObject(gql.ObjectConfig{
	Name: "AuditLogList",
	Fields: gql.Fields{
		"items": &gql.Field{Type: gql.NewNonNull(gql.NewList(gql.NewNonNull(auditLogType)))},
		"meta":  &gql.Field{Type: gql.NewNonNull(paginationMetaType)},
	},
})

var appInfoType = gql.NewObject(gql.ObjectConfig{
	Name: "AppInfo",
	Fields: gql.Fields{
		"name":        &gql.Field{Type: gql.NewNonNull(gql.String)},
		"version":     &gql.Field{Type: gql.NewNonNull(gql.String)},
		"description": &gql.Field{Type: gql.String},
		"environment": &gql.Field{Type: gql.NewNonNull(gql.String)},
		"startedAt":   &gql.Field{Type: gql.NewNonNull(gql.DateTime)},
		"uptime":      &gql.Field{Type: gql.NewNonNull(gql.Float)},
	},
})

var dependencyHealthType = gql.NewObject(gql.ObjectConfig{
	Name: "DependencyHealth",
	Fields: gql.Fields{
		"status":    &gql.Field{Type: gql.NewNonNull(gql.String)},
		"latencyMs": &gql.Field{Type: gql.NewNonNull(gql.Float)},
		"error":     &gql.Field{Type: gql.String},
	},
})

var healthType = gql.NewObject(gql.ObjectConfig{
	Name: "Health",
	Fields: gql.Fields{
		"status":    &gql.Field{Type: gql.NewNonNull(gql.String)},
		"timestamp": &gql.Field{Type: gql.NewNonNull(gql.DateTime)},
		"uptime":    &gql.Field{Type: gql.NewNonNull(gql.Float)},
		"database":  &gql.Field{Type: gql.NewNonNull(dependencyHealthType)},
	},
})

// ---- input ----

var registerInputType = gql.NewInputObject(gql.InputObjectConfig{
	Name: "RegisterInput",
	Fields: gql.InputObjectConfigFieldMap{
		"email":    &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
		"userName": &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
		"password": &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
	},
})

var loginInputType = gql.NewInputObject(gql.InputObjectConfig{
	Name: "LoginInput",
	Fields: gql.InputObjectConfigFieldMap{
		"emailOrUserName": &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
		"password":        &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
	},
})

var createUserInputType = gql.NewInputObject(gql.InputObjectConfig{
	Name: "CreateUserInput",
	Fields: gql.InputObjectConfigFieldMap{
		"email":    &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
		"userName": &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
		"password": &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
		"role":     &gql.InputObjectFieldConfig{Type: userRoleEnum},
		"status":   &gql.InputObjectFieldConfig{Type: userStatusEnum},
	},
})

var updateUserInputType = gql.NewInputObject(gql.InputObjectConfig{
	Name: "UpdateUserInput",
	Fields: gql.InputObjectConfigFieldMap{
		"email":    &gql.InputObjectFieldConfig{Type: gql.String},
		"userName": &gql.InputObjectFieldConfig{Type: gql.String},
		"role":     &gql.InputObjectFieldConfig{Type: userRoleEnum},
		"status":   &gql.InputObjectFieldConfig{Type: userStatusEnum},
	},
})

var changePasswordInputType = gql.NewInputObject(gql.InputObjectConfig{
	Name: "ChangePasswordInput",
	Fields: gql.InputObjectConfigFieldMap{
		"currentPassword": &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
		"newPassword":     &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
	},
})

// NewSchemaはrのresolverをつないだスキーマを作る
func NewSchema(r *Resolver) (gql.Schema, error) {
	query := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"appInfo": &gql.Field{Type: gql.NewNonNull(appInfoType), Resolve: r.resolve(r.appInfo)},
			"health":  &gql.Field{Type: gql.NewNonNull(healthType), Resolve: r.resolve(r.health)},
			"hello": &gql.Field{
				Type:    gql.NewNonNull(gql.String),
				Args:    gql.FieldConfigArgument{"name": &gql.ArgumentConfig{Type: gql.String}},
				Resolve: r.resolve(r.hello),
			},
			"me": &gql.Field{Type: gql.NewNonNull(userType), Resolve: r.resolve(r.me)},
			"user": &gql.Field{
				Type:    gql.NewNonNull(userType),
				Args:    gql.FieldConfigArgument{"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.ID)}},
				Resolve: r.resolve(r.user),
			},
			"users": &gql.Field{
				Type: gql.NewNonNull(userListType),
				Args: gql.FieldConfigArgument{
					"page":     &gql.ArgumentConfig{Type: gql.Int},
					"limit":    &gql.ArgumentConfig{Type: gql.Int},
					"email":    &gql.ArgumentConfig{Type: gql.String},
					"userName": &gql.ArgumentConfig{Type: gql.String},
					"status":   &gql.ArgumentConfig{Type: userStatusEnum},
					"role":     &gql.ArgumentConfig{Type: userRoleEnum},
					"sortBy":   &gql.ArgumentConfig{Type: gql.String},
					"order":    &gql.ArgumentConfig{Type: gql.String},
				},
				Resolve: r.resolve(r.users),
			},
			"auditLogs": &gql.Field{
				Type: gql.NewNonNull(auditLogListType),
				Args: gql.FieldConfigArgument{
					"page":         &gql.ArgumentConfig{Type: gql.Int},
					"limit":        &gql.ArgumentConfig{Type: gql.Int},
					"actorUserId":  &gql.ArgumentConfig{Type: gql.String},
					"targetUserId": &gql.ArgumentConfig{Type: gql.ID},
					"action":       &gql.ArgumentConfig{Type: gql.String},
				},
				Resolve: r.resolve(r.auditLogs),
			},
		},
	})

	idArg := &gql.ArgumentConfig{Type: gql.NewNonNull(gql.ID)}
	tokenArg := &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)}

	mutation := gql.NewObject(gql.ObjectConfig{
		Name: "Mutation",
		Fields: gql.Fields{
			"register": &gql.Field{
				Type:    gql.NewNonNull(userType),
				Args:    gql.FieldConfigArgument{"input": &gql.ArgumentConfig{Type: gql.NewNonNull(registerInputType)}},
				Resolve: r.resolve(r.register),
			},
			"login": &gql.Field{
				Type:    gql.NewNonNull(authPayloadType),
				Args:    gql.FieldConfigArgument{"input": &gql.ArgumentConfig{Type: gql.NewNonNull(loginInputType)}},
				Resolve: r.resolve(r.login),
			},
			"refreshToken": &gql.Field{
				Type:    gql.NewNonNull(authPayloadType),
				Args:    gql.FieldConfigArgument{"refreshToken": tokenArg},
				Resolve: r.resolve(r.refreshToken),
			},
			"logout": &gql.Field{
				Type:    gql.NewNonNull(gql.Boolean),
				Args:    gql.FieldConfigArgument{"refreshToken": tokenArg},
				Resolve: r.resolve(r.logout),
			},
			"logoutAll": &gql.Field{
				Type:        gql.NewNonNull(gql.Int),
				Description: "number of revoked refresh tokens",
				Resolve:     r.resolve(r.logoutAll),
			},
			"createUser": &gql.Field{
				Type:    gql.NewNonNull(userType),
				Args:    gql.FieldConfigArgument{"input": &gql.ArgumentConfig{Type: gql.NewNonNull(createUserInputType)}},
				Resolve: r.resolve(r.createUser),
			},
			"updateUser": &gql.Field{
				Type: gql.NewNonNull(userType),
				Args: gql.FieldConfigArgument{
					"id":    idArg,
					"input": &gql.ArgumentConfig{Type: gql.NewNonNull(updateUserInputType)},
				},
				Resolve: r.resolve(r.updateUser),
			},
			"changePassword": &gql.Field{
				Type:    gql.NewNonNull(gql.Boolean),
				Args:    gql.FieldConfigArgument{"input": &gql.ArgumentConfig{Type: gql.NewNonNull(changePasswordInputType)}},
				Resolve: r.resolve(r.changePassword),
			},
			"forceLogout": &gql.Field{
				Type:    gql.NewNonNull(forceLogoutType),
				Args:    gql.FieldConfigArgument{"id": idArg},
				Resolve: r.resolve(r.forceLogout),
			},
			"deleteUser": &gql.Field{
				Type:    gql.NewNonNull(gql.Boolean),
				Args:    gql.FieldConfigArgument{"id": idArg},
				Resolve: r.resolve(r.deleteUser),
			},
		},
	})

	return gql.NewSchema(gql.SchemaConfig{Query: query, Mutation: mutation})
}
