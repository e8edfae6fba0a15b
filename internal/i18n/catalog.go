package i18n

var catalogs = map[string]map[string]string{
	LocaleEN: {
		"error.unauthorized":                "Authentication required.",
		"error.forbidden":                   "You do not have permission to perform this action.",
		"error.bad_request":                 "Invalid request.",
		"error.internal":                    "Internal server error.",
		"error.not_found":                   "Resource not found.",
		"error.token_invalid":               "Invalid or expired token.",
		"error.token_revoked":               "Token has been revoked, please sign in again.",
		"error.auth_header_missing":         "Missing Authorization header.",
		"error.auth_header_invalid":         "Malformed Authorization header.",
		"error.jwt_secret_missing":          "JWT secret is not configured.",
		"error.user_disabled":               "This account is disabled.",
		"error.rate_limited":                "Too many requests, retry in %d seconds.",
		"error.login_too_many":              "Too many login attempts, retry in %d seconds.",
		"error.user_id_invalid":             "Invalid user id.",
		"error.user_id_type_invalid":        "User id has an unexpected type.",
		"error.password_min_length":         "Password must be at least %d characters.",
		"error.password_require_upper":      "Password must contain an uppercase letter.",
		"error.password_require_lower":      "Password must contain a lowercase letter.",
		"error.password_require_number":     "Password must contain a digit.",
		"error.password_require_special":    "Password must contain a special character.",
		"error.password_weak":               "Password is too weak.",
		"error.password_too_similar":        "The password is too similar to the username.",
		"error.password_entirely_numeric":   "The password is entirely numeric.",
		"error.password_mismatch":           "Current password is incorrect.",
		"error.username_required":           "Username is required.",
		"error.username_too_long":           "Username is too long.",
		"error.username_exists":             "A user with that username already exists.",
		"error.email_invalid":               "Enter a valid email address.",
		"error.user_not_found":              "User not found.",
		"error.login_invalid":               "Invalid username or password.",
		"error.login_failed":                "Login failed.",
		"error.register_failed":             "Registration failed.",
		"error.token_refresh_failed":        "Failed to refresh token.",
		"error.logout_failed":               "Logout failed.",
		"error.user_fetch_failed":           "Failed to load user.",
		"error.profile_update_failed":       "Failed to update profile.",
		"error.password_change_failed":      "Failed to change password.",
		"error.not_author":                  "Only the author can modify this item.",
		"error.article_not_found":           "Article not found.",
		"error.title_required":              "Title is required.",
		"error.title_too_long":              "Title is too long.",
		"error.content_required":            "Content is required.",
		"error.article_fetch_failed":        "Failed to load articles.",
		"error.article_save_failed":         "Failed to save article.",
		"error.article_delete_failed":       "Failed to delete article.",
		"error.article_id_invalid":          "Invalid article id.",
		"error.comment_not_found":           "Comment not found.",
		"error.comment_fetch_failed":        "Failed to load comments.",
		"error.comment_save_failed":         "Failed to save comment.",
		"error.comment_delete_failed":       "Failed to delete comment.",
		"error.comment_id_invalid":          "Invalid comment id.",
		"error.question_not_found":          "Question not found.",
		"error.question_required":           "Question text is required.",
		"error.question_too_long":           "Question text is too long.",
		"error.question_fetch_failed":       "Failed to load questions.",
		"error.question_save_failed":        "Failed to save question.",
		"error.question_delete_failed":      "Failed to delete question.",
		"error.question_id_invalid":         "Invalid question id.",
		"error.choice_not_found":            "Choice not found.",
		"error.choice_text_invalid":         "Choice text is empty or too long.",
		"error.choice_id_invalid":           "Invalid choice id.",
		"error.choice_fetch_failed":         "Failed to load choices.",
		"error.choice_save_failed":          "Failed to save choice.",
		"error.choice_delete_failed":        "Failed to delete choice.",
		"error.poll_closed":                 "This poll is closed.",
		"error.choice_required":             "You didn't select a choice.",
		"error.choice_mismatch":             "The choice does not belong to this question.",
		"error.vote_failed":                 "Failed to record vote.",
		"error.dashboard_fetch_failed":      "Failed to load dashboard.",
		"error.visit_fetch_failed":          "Failed to load visit records.",
		"error.visit_reset_failed":          "Failed to reset visit statistics.",
		"error.cannot_delete_self":          "You cannot delete your own account.",
		"error.user_delete_failed":          "Failed to delete user.",
		"error.authz_fetch_failed":          "Failed to load permissions.",
		"error.role_reserved":               "This role name is reserved.",
		"error.role_unknown":                "Role not found.",
		"error.role_builtin":                "Built-in roles cannot be modified.",
		"error.permission_unknown":          "Unknown permission.",
		"error.user_login_log_fetch_failed": "Failed to load login logs.",
		"visit.reset_confirm_required":      "This will delete %d page views and %d daily aggregates. Resend with confirm=true to proceed.",
		"visit.reset_done":                  "Deleted %d page views and %d daily aggregates.",
		"page.home":                         "Latest articles",
		"page.polls":                        "Polls",
		"page.not_found":                    "Page not found",
		"page.poll_closed":                  "This poll is closed and no longer accepts votes.",
		"page.choice_required":              "You didn't select a choice.",
	},
	LocaleFR: {
		"error.unauthorized":                "Authentification requise.",
		"error.forbidden":                   "Vous n'avez pas la permission d'effectuer cette action.",
		"error.bad_request":                 "Requête invalide.",
		"error.internal":                    "Erreur interne du serveur.",
		"error.not_found":                   "Ressource introuvable.",
		"error.token_invalid":               "Jeton invalide ou expiré.",
		"error.token_revoked":               "Le jeton a été révoqué, veuillez vous reconnecter.",
		"error.auth_header_missing":         "En-tête Authorization manquant.",
		"error.auth_header_invalid":         "En-tête Authorization mal formé.",
		"error.jwt_secret_missing":          "Le secret JWT n'est pas configuré.",
		"error.user_disabled":               "Ce compte est désactivé.",
		"error.rate_limited":                "Trop de requêtes, réessayez dans %d secondes.",
		"error.login_too_many":              "Trop de tentatives de connexion, réessayez dans %d secondes.",
		"error.user_id_invalid":             "Identifiant d'utilisateur invalide.",
		"error.user_id_type_invalid":        "L'identifiant d'utilisateur a un type inattendu.",
		"error.password_min_length":         "Le mot de passe doit contenir au moins %d caractères.",
		"error.password_require_upper":      "Le mot de passe doit contenir une majuscule.",
		"error.password_require_lower":      "Le mot de passe doit contenir une minuscule.",
		"error.password_require_number":     "Le mot de passe doit contenir un chiffre.",
		"error.password_require_special":    "Le mot de passe doit contenir un caractère spécial.",
		"error.password_weak":               "Le mot de passe est trop faible.",
		"error.password_too_similar":        "Le mot de passe est trop semblable au nom d'utilisateur.",
		"error.password_entirely_numeric":   "Le mot de passe est entièrement numérique.",
		"error.password_mismatch":           "Le mot de passe actuel est incorrect.",
		"error.username_required":           "Le nom d'utilisateur est requis.",
		"error.username_too_long":           "Le nom d'utilisateur est trop long.",
		"error.username_exists":             "Un utilisateur avec ce nom existe déjà.",
		"error.email_invalid":               "Saisissez une adresse e-mail valide.",
		"error.user_not_found":              "Utilisateur introuvable.",
		"error.login_invalid":               "Nom d'utilisateur ou mot de passe invalide.",
		"error.login_failed":                "Échec de la connexion.",
		"error.register_failed":             "Échec de l'inscription.",
		"error.token_refresh_failed":        "Impossible de renouveler le jeton.",
		"error.logout_failed":               "Échec de la déconnexion.",
		"error.user_fetch_failed":           "Impossible de charger l'utilisateur.",
		"error.profile_update_failed":       "Impossible de mettre à jour le profil.",
		"error.password_change_failed":      "Impossible de changer le mot de passe.",
		"error.not_author":                  "Seul l'auteur peut modifier cet élément.",
		"error.article_not_found":           "Article introuvable.",
		"error.title_required":              "Le titre est requis.",
		"error.title_too_long":              "Le titre est trop long.",
		"error.content_required":            "Le contenu est requis.",
		"error.article_fetch_failed":        "Impossible de charger les articles.",
		"error.article_save_failed":         "Impossible d'enregistrer l'article.",
		"error.article_delete_failed":       "Impossible de supprimer l'article.",
		"error.article_id_invalid":          "Identifiant d'article invalide.",
		"error.comment_not_found":           "Commentaire introuvable.",
		"error.comment_fetch_failed":        "Impossible de charger les commentaires.",
		"error.comment_save_failed":         "Impossible d'enregistrer le commentaire.",
		"error.comment_delete_failed":       "Impossible de supprimer le commentaire.",
		"error.comment_id_invalid":          "Identifiant de commentaire invalide.",
		"error.question_not_found":          "Question introuvable.",
		"error.question_required":           "Le texte de la question est requis.",
		"error.question_too_long":           "Le texte de la question est trop long.",
		"error.question_fetch_failed":       "Impossible de charger les questions.",
		"error.question_save_failed":        "Impossible d'enregistrer la question.",
		"error.question_delete_failed":      "Impossible de supprimer la question.",
		"error.question_id_invalid":         "Identifiant de question invalide.",
		"error.choice_not_found":            "Choix introuvable.",
		"error.choice_text_invalid":         "Le texte du choix est vide ou trop long.",
		"error.choice_id_invalid":           "Identifiant de choix invalide.",
		"error.choice_fetch_failed":         "Impossible de charger les choix.",
		"error.choice_save_failed":          "Impossible d'enregistrer le choix.",
		"error.choice_delete_failed":        "Impossible de supprimer le choix.",
		"error.poll_closed":                 "Ce sondage est fermé.",
		"error.choice_required":             "Vous n'avez pas sélectionné de choix.",
		"error.choice_mismatch":             "Ce choix n'appartient pas à cette question.",
		"error.vote_failed":                 "Impossible d'enregistrer le vote.",
		"error.dashboard_fetch_failed":      "Impossible de charger le tableau de bord.",
		"error.visit_fetch_failed":          "Impossible de charger les visites.",
		"error.visit_reset_failed":          "Impossible de réinitialiser les statistiques de visite.",
		"error.cannot_delete_self":          "Vous ne pouvez pas supprimer votre propre compte.",
		"error.user_delete_failed":          "Impossible de supprimer l'utilisateur.",
		"error.authz_fetch_failed":          "Impossible de charger les permissions.",
		"error.role_reserved":               "Ce nom de rôle est réservé.",
		"error.role_unknown":                "Rôle introuvable.",
		"error.role_builtin":                "Les rôles intégrés ne peuvent pas être modifiés.",
		"error.permission_unknown":          "Permission inconnue.",
		"error.user_login_log_fetch_failed": "Impossible de charger les journaux de connexion.",
		"visit.reset_confirm_required":      "Cette opération supprimera %d pages vues et %d agrégats journaliers. Renvoyez avec confirm=true pour continuer.",
		"visit.reset_done":                  "%d pages vues et %d agrégats journaliers supprimés.",
		"page.home":                         "Derniers articles",
		"page.polls":                        "Sondages",
		"page.not_found":                    "Page introuvable",
		"page.poll_closed":                  "Ce sondage est fermé et n'accepte plus de votes.",
		"page.choice_required":              "Vous n'avez pas sélectionné de choix.",
	},
	LocaleZH: {
		"error.unauthorized":                "需要登录",
		"error.forbidden":                   "无权执行此操作",
		"error.bad_request":                 "请求参数错误",
		"error.internal":                    "服务器内部错误",
		"error.not_found":                   "资源不存在",
		"error.token_invalid":               "令牌无效或已过期",
		"error.token_revoked":               "令牌已失效，请重新登录",
		"error.auth_header_missing":         "缺少 Authorization 请求头",
		"error.auth_header_invalid":         "Authorization 请求头格式错误",
		"error.jwt_secret_missing":          "未配置 JWT 密钥",
		"error.user_disabled":               "账号已被禁用",
		"error.rate_limited":                "请求过于频繁，请 %d 秒后重试",
		"error.login_too_many":              "登录尝试过多，请 %d 秒后重试",
		"error.user_id_invalid":             "用户 ID 无效",
		"error.user_id_type_invalid":        "用户 ID 类型错误",
		"error.password_min_length":         "密码长度不能少于 %d 位",
		"error.password_require_upper":      "密码必须包含大写字母",
		"error.password_require_lower":      "密码必须包含小写字母",
		"error.password_require_number":     "密码必须包含数字",
		"error.password_require_special":    "密码必须包含特殊字符",
		"error.password_weak":               "密码强度不足",
		"error.password_too_similar":        "密码与用户名过于相似",
		"error.password_entirely_numeric":   "密码不能全为数字",
		"error.password_mismatch":           "原密码错误",
		"error.username_required":           "用户名不能为空",
		"error.username_too_long":           "用户名过长",
		"error.username_exists":             "用户名已存在",
		"error.email_invalid":               "邮箱格式不正确",
		"error.user_not_found":              "用户不存在",
		"error.login_invalid":               "用户名或密码错误",
		"error.login_failed":                "登录失败",
		"error.register_failed":             "注册失败",
		"error.token_refresh_failed":        "刷新令牌失败",
		"error.logout_failed":               "退出登录失败",
		"error.user_fetch_failed":           "获取用户信息失败",
		"error.profile_update_failed":       "更新资料失败",
		"error.password_change_failed":      "修改密码失败",
		"error.not_author":                  "只有作者可以修改",
		"error.article_not_found":           "文章不存在",
		"error.title_required":              "标题不能为空",
		"error.title_too_long":              "标题过长",
		"error.content_required":            "内容不能为空",
		"error.article_fetch_failed":        "获取文章失败",
		"error.article_save_failed":         "保存文章失败",
		"error.article_delete_failed":       "删除文章失败",
		"error.article_id_invalid":          "文章 ID 无效",
		"error.comment_not_found":           "评论不存在",
		"error.comment_fetch_failed":        "获取评论失败",
		"error.comment_save_failed":         "保存评论失败",
		"error.comment_delete_failed":       "删除评论失败",
		"error.comment_id_invalid":          "评论 ID 无效",
		"error.question_not_found":          "问题不存在",
		"error.question_required":           "问题内容不能为空",
		"error.question_too_long":           "问题内容过长",
		"error.question_fetch_failed":       "获取问题失败",
		"error.question_save_failed":        "保存问题失败",
		"error.question_delete_failed":      "删除问题失败",
		"error.question_id_invalid":         "问题 ID 无效",
		"error.choice_not_found":            "选项不存在",
		"error.choice_text_invalid":         "选项内容为空或过长",
		"error.choice_id_invalid":           "选项 ID 无效",
		"error.choice_fetch_failed":         "获取选项失败",
		"error.choice_save_failed":          "保存选项失败",
		"error.choice_delete_failed":        "删除选项失败",
		"error.poll_closed":                 "投票已关闭",
		"error.choice_required":             "请选择一个选项",
		"error.choice_mismatch":             "选项不属于该问题",
		"error.vote_failed":                 "投票失败",
		"error.dashboard_fetch_failed":      "获取仪表盘数据失败",
		"error.visit_fetch_failed":          "获取访问记录失败",
		"error.visit_reset_failed":          "重置访问统计失败",
		"error.cannot_delete_self":          "不能删除自己的账号",
		"error.user_delete_failed":          "删除用户失败",
		"error.authz_fetch_failed":          "获取权限失败",
		"error.role_reserved":               "该角色名为系统保留",
		"error.role_unknown":                "角色不存在",
		"error.role_builtin":                "预置角色不可修改",
		"error.permission_unknown":          "未知权限",
		"error.user_login_log_fetch_failed": "获取登录日志失败",
		"visit.reset_confirm_required":      "将删除 %d 条访问记录和 %d 条每日汇总，请携带 confirm=true 再次提交",
		"visit.reset_done":                  "已删除 %d 条访问记录和 %d 条每日汇总",
		"page.home":                         "最新文章",
		"page.polls":                        "投票",
		"page.not_found":                    "页面不存在",
		"page.poll_closed":                  "该投票已关闭，不再接受投票",
		"page.choice_required":              "请选择一个选项",
	},
}
